package esmry

import (
	"encoding/binary"
	"math"
	"os"
	"strings"

	"github.com/ecl-tools/eclio/lib/blockio"
	"github.com/ecl-tools/eclio/lib/eclerr"
)

// WriteESMRY writes the compact derived ESMRY container to path, per
// spec.md §4.5's make_esmry_file. Only allowed for a standalone run
// (opened with WithoutRestartChain): a chained ESmry would otherwise bake
// a restart-merged view into a format that itself only names one RESTART
// root. Returns false without error if path already exists.
func (e *ESmry) WriteESMRY(path string) (bool, error) {
	if e.loadBaseRunData && len(e.chain) > 1 {
		return false, eclerr.New(eclerr.InvalidArgument, "make_esmry_file requires a standalone run, not a restart chain")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := e.LoadAll(); err != nil {
		return false, err
	}

	f, err := os.Create(path)
	if err != nil {
		return false, eclerr.Wrap(eclerr.IOError, path, err, "failed to create ESMRY file")
	}
	defer f.Close()

	base := e.chain[0]
	start := base.startdat
	millis := (start.Micro % 1000000) / 1000
	startRec := []int32{
		int32(start.Day), int32(start.Month), int32(start.Year),
		int32(start.Hour), int32(start.Minute), int32(start.Micro / 1000000), int32(millis),
	}
	if err := writeIntRecord(f, "START", startRec); err != nil {
		return false, err
	}

	if base.restartRoot != "" {
		if err := writeStringRecord(f, "RESTART", []string{base.restartRoot}, 8); err != nil {
			return false, err
		}
		if err := writeIntRecord(f, "RSTNUM", []int32{int32(base.restartStep)}); err != nil {
			return false, err
		}
	}

	if err := writeStringRecord(f, "KEYCHECK", e.keys, 20); err != nil {
		return false, err
	}
	if err := writeStringRecord(f, "UNITS", e.units, 8); err != nil {
		return false, err
	}

	if err := writeIntRecord(f, "RSTEP", e.ReportSteps()); err != nil {
		return false, err
	}

	miniSteps, err := e.MiniSteps()
	if err != nil {
		return false, err
	}
	if err := writeIntRecord(f, "TSTEP", miniSteps); err != nil {
		return false, err
	}

	for ordinal, key := range e.keys {
		vec, err := e.Get(key)
		if err != nil {
			return false, err
		}
		if err := writeFloatRecord(f, vectorRecordName(ordinal), vec); err != nil {
			return false, err
		}
	}

	return true, nil
}

func vectorRecordName(ordinal int) string {
	return "V" + itoa(ordinal)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func writeRecordHeader(f *os.File, name string, count int, typ blockio.Type) error {
	header := make([]byte, 16)
	copy(header, []byte(padTo(name, 8)))
	binary.BigEndian.PutUint32(header[8:12], uint32(count))
	copy(header[12:16], []byte(padTo(string(typ), 4)))
	return blockio.WriteBlock(f, header)
}

func padTo(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func writeIntRecord(f *os.File, name string, vals []int32) error {
	if err := writeRecordHeader(f, name, len(vals), blockio.INTE); err != nil {
		return err
	}
	maxPerBlock, _ := blockio.MaxPerBlock(blockio.INTE)
	for _, b := range blockio.Blocks(len(vals), maxPerBlock) {
		payload := make([]byte, b.Count*4)
		for i := 0; i < b.Count; i++ {
			binary.BigEndian.PutUint32(payload[i*4:i*4+4], uint32(vals[b.Start+i]))
		}
		if err := blockio.WriteBlock(f, payload); err != nil {
			return err
		}
	}
	return nil
}

func writeFloatRecord(f *os.File, name string, vals []float32) error {
	if err := writeRecordHeader(f, name, len(vals), blockio.REAL); err != nil {
		return err
	}
	maxPerBlock, _ := blockio.MaxPerBlock(blockio.REAL)
	for _, b := range blockio.Blocks(len(vals), maxPerBlock) {
		payload := make([]byte, b.Count*4)
		for i := 0; i < b.Count; i++ {
			binary.BigEndian.PutUint32(payload[i*4:i*4+4], math.Float32bits(vals[b.Start+i]))
		}
		if err := blockio.WriteBlock(f, payload); err != nil {
			return err
		}
	}
	return nil
}

func writeStringRecord(f *os.File, name string, vals []string, width int) error {
	typ := blockio.CHAR
	if width != 8 {
		typ = blockio.Type("C0" + itoa(width))
	}
	if err := writeRecordHeader(f, name, len(vals), typ); err != nil {
		return err
	}
	maxPerBlock, _ := blockio.MaxPerBlock(typ)
	for _, b := range blockio.Blocks(len(vals), maxPerBlock) {
		payload := make([]byte, 0, b.Count*width)
		for i := 0; i < b.Count; i++ {
			payload = append(payload, []byte(padTo(vals[b.Start+i], width))...)
		}
		if err := blockio.WriteBlock(f, payload); err != nil {
			return err
		}
	}
	return nil
}
