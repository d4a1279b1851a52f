package eclfile

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ecl-tools/eclio/lib/blockio"
	"github.com/ecl-tools/eclio/lib/eclerr"
)

// decodeFormatted reads the data rows following a formatted record's
// header line and parses them into the Go slice type matching r.Type.
// Partial (seek-directly-to-an-element) reads of formatted files are not
// supported anywhere in this package, per spec.md §4.3.
func decodeFormatted(path string, f io.ReadSeeker, r Record) (interface{}, error) {
	if r.Type == blockio.MESS || r.Count == 0 {
		return emptyFormatted(r.Type), nil
	}

	if _, err := f.Seek(r.Offset, io.SeekStart); err != nil {
		return nil, eclerr.Wrap(eclerr.IOError, path, err, "failed to seek to record %q", r.Name)
	}
	br := bufio.NewReader(f)

	columns, _, ok := blockio.ColumnsAndWidth(r.Type)
	if !ok {
		return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "unrecognized element type %q", r.Type)
	}
	rows := (r.Count + columns - 1) / columns

	tokens := make([]string, 0, r.Count)
	for i := 0; i < rows; i++ {
		line, _, err := readLine(br)
		if err != nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset,
				"unexpected EOF mid-record reading data row %d/%d", i+1, rows)
		}
		tokens = append(tokens, splitFormattedRow(line, r.Type)...)
	}
	if len(tokens) > r.Count {
		tokens = tokens[:r.Count]
	}

	switch r.Type {
	case blockio.INTE:
		return parseInts(path, r, tokens)
	case blockio.REAL:
		return parseFloat32s(path, r, tokens)
	case blockio.DOUB:
		return parseFloat64s(path, r, tokens)
	case blockio.LOGI:
		return parseBools(tokens), nil
	case blockio.CHAR:
		return stripQuotes(tokens), nil
	}
	if blockio.IsC0NN(r.Type) {
		return stripQuotes(tokens), nil
	}
	return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "unrecognized element type %q", r.Type)
}

func emptyFormatted(typ blockio.Type) interface{} {
	switch typ {
	case blockio.INTE:
		return []int32{}
	case blockio.REAL:
		return []float32{}
	case blockio.DOUB:
		return []float64{}
	case blockio.LOGI:
		return []bool{}
	default:
		return []string{}
	}
}

func splitFormattedRow(line string, typ blockio.Type) []string {
	if typ == blockio.CHAR || blockio.IsC0NN(typ) {
		// Quoted string tokens may contain spaces, so split on the quotes
		// instead of whitespace.
		var out []string
		for _, field := range strings.Split(line, "'") {
			if strings.TrimSpace(field) == "" {
				continue
			}
			out = append(out, "'"+field+"'")
		}
		return out
	}
	return strings.Fields(line)
}

func stripQuotes(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.TrimRight(strings.Trim(t, "'"), " ")
	}
	return out
}

func parseInts(path string, r Record, tokens []string) ([]int32, error) {
	out := make([]int32, len(tokens))
	for i, t := range tokens {
		v, err := strconv.ParseInt(t, 10, 32)
		if err != nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "invalid integer %q", t)
		}
		out[i] = int32(v)
	}
	return out, nil
}

func parseFloat32s(path string, r Record, tokens []string) ([]float32, error) {
	out := make([]float32, len(tokens))
	for i, t := range tokens {
		v, err := strconv.ParseFloat(strings.Replace(t, "D", "E", 1), 32)
		if err != nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "invalid float %q", t)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseFloat64s(path string, r Record, tokens []string) ([]float64, error) {
	out := make([]float64, len(tokens))
	for i, t := range tokens {
		v, err := strconv.ParseFloat(strings.Replace(t, "D", "E", 1), 64)
		if err != nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "invalid float %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func parseBools(tokens []string) []bool {
	out := make([]bool, len(tokens))
	for i, t := range tokens {
		out[i] = t == "T" || t == "TRUE" || t == ".TRUE."
	}
	return out
}
