package eclfile

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/ecl-tools/eclio/lib/blockio"
	"github.com/ecl-tools/eclio/lib/eclerr"
)

// scanBinaryDirectory streams an unformatted EclFile once, yielding one
// Record per header block without reading any data-block payload
// (spec.md §4.2: "No payload is read at construction").
func scanBinaryDirectory(path string, f io.ReadSeeker) ([]Record, error) {
	var records []Record

	for {
		start, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, eclerr.Wrap(eclerr.IOError, path, err, "failed to seek")
		}

		header, err := blockio.ReadBlock(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, "", start,
				"malformed record header: %s", err.Error())
		}
		if len(header) != 16 {
			return nil, eclerr.NewAt(eclerr.Malformed, path, "", start,
				"record header block has %d bytes, want 16", len(header))
		}

		name := strings.TrimRight(string(header[0:8]), " ")
		count := int(binary.BigEndian.Uint32(header[8:12]))
		typ := blockio.Type(strings.TrimRight(string(header[12:16]), " "))

		dataOffset, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, eclerr.Wrap(eclerr.IOError, path, err, "failed to seek")
		}

		records = append(records, Record{Name: name, Type: typ, Count: count, Offset: dataOffset})

		if err := skipBinaryData(path, f, name, dataOffset, count, typ); err != nil {
			return nil, err
		}
	}

	return records, nil
}

// skipBinaryData advances f past the data blocks belonging to a record of
// count elements of type typ, without reading their payload.
func skipBinaryData(path string, f io.Seeker, name string, dataOffset int64, count int, typ blockio.Type) error {
	total, err := blockio.SizeOnDiskBinary(count, typ)
	if err != nil {
		return eclerr.NewAt(eclerr.Malformed, path, name, dataOffset, "%s", err.Error())
	}
	dataSize := total - blockio.HeaderSizeOnDisk
	if _, err := f.Seek(dataOffset+dataSize, io.SeekStart); err != nil {
		return eclerr.Wrap(eclerr.IOError, path, err, "failed to seek past record %q", name)
	}
	return nil
}
