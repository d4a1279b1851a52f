package blockio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadBlock reads one on-disk data block from r: a 4-byte big-endian header
// int giving the payload size in bytes, the payload itself, and a trailing
// 4-byte int that must equal the header (spec.md §4.1's block invariant).
func ReadBlock(r io.Reader) (payload []byte, err error) {
	var header uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, err
	}
	payload = make([]byte, header)
	if header > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	var trailer uint32
	if err := binary.Read(r, binary.BigEndian, &trailer); err != nil {
		return nil, err
	}
	if header != trailer {
		return nil, fmt.Errorf("tail not matching header: header=%d trailer=%d", header, trailer)
	}
	return payload, nil
}

// WriteBlock writes payload as one on-disk data block: a 4-byte header int
// equal to len(payload), the payload, and a matching 4-byte trailer.
func WriteBlock(w io.Writer, payload []byte) error {
	n := uint32(len(payload))
	if err := binary.Write(w, binary.BigEndian, n); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.BigEndian, n)
}
