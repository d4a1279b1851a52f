package eclfile

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ecl-tools/eclio/lib/blockio"
	"github.com/ecl-tools/eclio/lib/eclerr"
)

var formattedHeaderLine = regexp.MustCompile(`^\s*'([^']*)'\s+(-?\d+)\s+'([^']*)'\s*$`)

// scanFormattedDirectory streams a formatted (ASCII) EclFile once, parsing
// each header line ("'NAME    '  COUNT  'TYPE'") and skipping the fixed
// number of data rows that follow it without parsing their contents.
func scanFormattedDirectory(path string, f io.Reader) ([]Record, error) {
	br := bufio.NewReader(f)
	var records []Record
	var pos int64

	for {
		line, raw, err := readLine(br)
		if err == io.EOF && line == "" {
			break
		}
		if err != nil && err != io.EOF {
			return nil, eclerr.Wrap(eclerr.IOError, path, err, "failed to read header line")
		}

		m := formattedHeaderLine.FindStringSubmatch(line)
		if m == nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, "", pos,
				"unrecognized formatted record header %q", line)
		}
		pos += int64(len(raw))

		name := strings.TrimRight(m[1], " ")
		count, convErr := strconv.Atoi(m[2])
		if convErr != nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, name, pos, "invalid record count %q", m[2])
		}
		typ := blockio.Type(strings.TrimRight(m[3], " "))

		dataOffset := pos
		records = append(records, Record{Name: name, Type: typ, Count: count, Offset: dataOffset})

		rows, rowErr := formattedRows(count, typ)
		if rowErr != nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, name, pos, "%s", rowErr.Error())
		}
		for i := 0; i < rows; i++ {
			_, raw, err := readLine(br)
			if err != nil {
				return nil, eclerr.NewAt(eclerr.Malformed, path, name, pos,
					"unexpected EOF mid-record reading data row %d/%d", i+1, rows)
			}
			pos += int64(len(raw))
		}

		if err == io.EOF {
			break
		}
	}

	return records, nil
}

func formattedRows(count int, typ blockio.Type) (int, error) {
	if typ == blockio.MESS || count == 0 {
		return 0, nil
	}
	columns, _, ok := blockio.ColumnsAndWidth(typ)
	if !ok {
		return 0, eclerr.New(eclerr.Malformed, "unrecognized element type %q", typ)
	}
	return (count + columns - 1) / columns, nil
}

// readLine reads one newline-terminated line, returning the line with its
// terminator stripped, the raw bytes consumed (including the terminator,
// used for offset bookkeeping), and io.EOF once nothing more remains.
func readLine(br *bufio.Reader) (line string, raw string, err error) {
	s, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", "", err
	}
	trimmed := strings.TrimRight(s, "\r\n")
	if s == "" {
		return "", "", io.EOF
	}
	return trimmed, s, err
}
