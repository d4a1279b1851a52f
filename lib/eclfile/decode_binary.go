package eclfile

import (
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/ecl-tools/eclio/lib/blockio"
	"github.com/ecl-tools/eclio/lib/eclerr"
)

// decodeBinary reads and concatenates every data block belonging to r,
// validating each block's header/trailer pair, then decodes the
// concatenated payload into the Go slice type matching r.Type.
func decodeBinary(path string, f io.ReadSeeker, r Record) (interface{}, error) {
	if r.Type == blockio.MESS {
		return []struct{}{}, nil
	}

	if _, err := f.Seek(r.Offset, io.SeekStart); err != nil {
		return nil, eclerr.Wrap(eclerr.IOError, path, err, "failed to seek to record %q", r.Name)
	}

	elemSize, err := blockio.ElemSize(r.Type)
	if err != nil {
		return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "%s", err.Error())
	}
	maxPerBlock, err := blockio.MaxPerBlock(r.Type)
	if err != nil {
		return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "%s", err.Error())
	}

	payload := make([]byte, 0, r.Count*elemSize)
	offset := r.Offset
	for range blockio.Blocks(r.Count, maxPerBlock) {
		block, err := blockio.ReadBlock(f)
		if err != nil {
			return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, offset, "%s", err.Error())
		}
		payload = append(payload, block...)
		offset += 8 + int64(len(block))
	}

	switch r.Type {
	case blockio.INTE:
		return decodeInts(payload), nil
	case blockio.REAL:
		return decodeFloat32s(payload), nil
	case blockio.DOUB:
		return decodeFloat64s(payload), nil
	case blockio.LOGI:
		return decodeBools(payload), nil
	case blockio.CHAR:
		return decodeStrings(payload, 8), nil
	}
	if blockio.IsC0NN(r.Type) {
		return decodeStrings(payload, elemSize), nil
	}
	return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "unrecognized element type %q", r.Type)
}

func decodeInts(payload []byte) []int32 {
	n := len(payload) / 4
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = int32(binary.BigEndian.Uint32(payload[i*4 : i*4+4]))
	}
	return out
}

func decodeFloat32s(payload []byte) []float32 {
	n := len(payload) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.BigEndian.Uint32(payload[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

func decodeFloat64s(payload []byte) []float64 {
	n := len(payload) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := binary.BigEndian.Uint64(payload[i*8 : i*8+8])
		out[i] = math.Float64frombits(bits)
	}
	return out
}

func decodeBools(payload []byte) []bool {
	n := len(payload) / 4
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = binary.BigEndian.Uint32(payload[i*4:i*4+4]) != 0
	}
	return out
}

func decodeStrings(payload []byte, width int) []string {
	if width <= 0 {
		return nil
	}
	n := len(payload) / width
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = strings.TrimRight(string(payload[i*width:i*width+width]), " ")
	}
	return out
}
