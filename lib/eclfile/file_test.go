package eclfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecl-tools/eclio/internal/eq"
	"github.com/ecl-tools/eclio/lib/blockio"
	"github.com/ecl-tools/eclio/lib/eclerr"
)

// writeRecord appends one binary array record (header block + data blocks)
// to buf, mirroring the on-disk layout in spec.md §6.
func writeRecord(t *testing.T, buf *bytes.Buffer, name string, typ blockio.Type, payload []byte, count int) {
	t.Helper()
	header := make([]byte, 16)
	copy(header, []byte(padName(name)))
	binary.BigEndian.PutUint32(header[8:12], uint32(count))
	copy(header[12:16], []byte(padType(string(typ))))
	if err := blockio.WriteBlock(buf, header); err != nil {
		t.Fatalf("WriteBlock header failed: %s", err.Error())
	}

	elemSize, err := blockio.ElemSize(typ)
	if err != nil {
		t.Fatalf("ElemSize failed: %s", err.Error())
	}
	maxPerBlock, err := blockio.MaxPerBlock(typ)
	if err != nil {
		t.Fatalf("MaxPerBlock failed: %s", err.Error())
	}
	for _, b := range blockio.Blocks(count, maxPerBlock) {
		chunk := payload[b.Start*elemSize : (b.Start+b.Count)*elemSize]
		if err := blockio.WriteBlock(buf, chunk); err != nil {
			t.Fatalf("WriteBlock data failed: %s", err.Error())
		}
	}
}

func padName(s string) string {
	for len(s) < 8 {
		s += " "
	}
	return s[:8]
}

func padType(s string) string {
	for len(s) < 4 {
		s += " "
	}
	return s[:4]
}

func intPayload(vals ...int32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], uint32(v))
	}
	return out
}

func realPayload(vals ...float32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(v))
	}
	return out
}

func charPayload(vals ...string) []byte {
	out := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		out = append(out, []byte(padName(v))...)
	}
	return out
}

func writeTempFile(t *testing.T, name string, contents []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %s", path, err.Error())
	}
	return path
}

func TestOpenBuildsDirectoryInFileOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	writeRecord(t, buf, "INTEHEAD", blockio.INTE, intPayload(1, 2, 3), 3)
	writeRecord(t, buf, "NAME", blockio.CHAR, charPayload("OP_1", "OP_2"), 2)

	path := writeTempFile(t, "test.EGRID", buf.Bytes())
	ef, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %s", err.Error())
	}

	list := ef.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].Name != "INTEHEAD" || list[0].Type != blockio.INTE || list[0].Count != 3 {
		t.Errorf("unexpected first record: %+v", list[0])
	}
	if list[1].Name != "NAME" || list[1].Type != blockio.CHAR || list[1].Count != 2 {
		t.Errorf("unexpected second record: %+v", list[1])
	}
}

func TestGetReturnsLastOccurrence(t *testing.T) {
	buf := &bytes.Buffer{}
	writeRecord(t, buf, "KEYWORDS", blockio.CHAR, charPayload("FOPT"), 1)
	writeRecord(t, buf, "KEYWORDS", blockio.CHAR, charPayload("WOPR"), 1)

	path := writeTempFile(t, "test.SMSPEC", buf.Bytes())
	ef, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %s", err.Error())
	}

	got, err := Get[string](ef, "KEYWORDS")
	if err != nil {
		t.Fatalf("Get failed: %s", err.Error())
	}
	if !eq.Strings(got, []string{"WOPR"}) {
		t.Errorf("Get(KEYWORDS) = %v, want the last occurrence [WOPR]", got)
	}
}

func TestGetAtIsUnambiguous(t *testing.T) {
	buf := &bytes.Buffer{}
	writeRecord(t, buf, "KEYWORDS", blockio.CHAR, charPayload("FOPT"), 1)
	writeRecord(t, buf, "KEYWORDS", blockio.CHAR, charPayload("WOPR"), 1)

	path := writeTempFile(t, "test.SMSPEC", buf.Bytes())
	ef, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %s", err.Error())
	}

	got, err := GetAt[string](ef, 0)
	if err != nil {
		t.Fatalf("GetAt failed: %s", err.Error())
	}
	if !eq.Strings(got, []string{"FOPT"}) {
		t.Errorf("GetAt(0) = %v, want [FOPT]", got)
	}
}

func TestGetMissingKeyIsNotFound(t *testing.T) {
	buf := &bytes.Buffer{}
	writeRecord(t, buf, "KEYWORDS", blockio.CHAR, charPayload("FOPT"), 1)
	path := writeTempFile(t, "test.SMSPEC", buf.Bytes())
	ef, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %s", err.Error())
	}

	_, err = Get[string](ef, "MISSING")
	if err == nil {
		t.Fatalf("expected a NotFound error, got nil")
	}
	if !errors.Is(err, eclerr.ErrNotFound) {
		t.Errorf("expected NotFound, got %s", err.Error())
	}
}

func TestGetWrongTypeFails(t *testing.T) {
	buf := &bytes.Buffer{}
	writeRecord(t, buf, "NUMS", blockio.INTE, intPayload(1, 2), 2)
	path := writeTempFile(t, "test.SMSPEC", buf.Bytes())
	ef, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %s", err.Error())
	}

	_, err = Get[string](ef, "NUMS")
	if err == nil {
		t.Fatalf("expected a WrongType error, got nil")
	}
	if !errors.Is(err, eclerr.ErrWrongType) {
		t.Errorf("expected WrongType, got %s", err.Error())
	}
}

func TestDecodeRealValuesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	writeRecord(t, buf, "PARAMS", blockio.REAL, realPayload(1.5, -2.25, 3.0), 3)
	path := writeTempFile(t, "test.UNSMRY", buf.Bytes())
	ef, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %s", err.Error())
	}

	got, err := Get[float32](ef, "PARAMS")
	if err != nil {
		t.Fatalf("Get failed: %s", err.Error())
	}
	want := []float32{1.5, -2.25, 3.0}
	if !eq.Float32s(got, want) {
		t.Errorf("Get(PARAMS) = %v, want %v", got, want)
	}
}

func TestMalformedTrailerIsDetectedOnLoad(t *testing.T) {
	buf := &bytes.Buffer{}
	writeRecord(t, buf, "NUMS", blockio.INTE, intPayload(1, 2), 2)
	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xff // corrupt the final trailer int

	path := writeTempFile(t, "test.SMSPEC", raw)
	ef, err := Open(path)
	if err != nil {
		t.Fatalf("Open (directory construction reads no payload) failed: %s", err.Error())
	}

	_, err = Get[int32](ef, "NUMS")
	if err == nil {
		t.Fatalf("expected a Malformed error on load, got nil")
	}
	if !errors.Is(err, eclerr.ErrMalformed) {
		t.Errorf("expected Malformed, got %s", err.Error())
	}
}
