package esmry

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ecl-tools/eclio/lib/blockio"
	"github.com/ecl-tools/eclio/lib/eclerr"
	"github.com/ecl-tools/eclio/lib/eclfile"
)

// Get materializes and caches the full time series for key, reading one
// value per time step by seeking directly to its slot in that step's
// PARAMS record (spec.md §4.5's load(keys)). Steps whose spec file doesn't
// define key (because it first appears later in the restart chain) are
// filled with NaN.
func (e *ESmry) Get(key string) ([]float32, error) {
	if e.vectorLoaded[key] {
		return e.vectors[key], nil
	}
	ordinal, ok := e.keyIndex[key]
	if !ok {
		return nil, eclerr.New(eclerr.NotFound, "key %q not found", key)
	}

	out := make([]float32, len(e.steps))
	for i, step := range e.steps {
		pos := e.arrayPos[step.specIdx][ordinal]
		if pos < 0 {
			out[i] = float32(math.NaN())
			continue
		}
		v, err := readParamElement(step.ef, step.paramsIdx, pos)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	e.vectors[key] = out
	e.vectorLoaded[key] = true
	return out, nil
}

// GetAt is Get's index-addressed counterpart, returning the i-th time
// step's value for key without caching the whole series.
func (e *ESmry) GetAt(key string, i int) (float32, error) {
	if i < 0 || i >= len(e.steps) {
		return 0, eclerr.New(eclerr.InvalidArgument, "time step index %d out of range [0,%d)", i, len(e.steps))
	}
	if e.vectorLoaded[key] {
		return e.vectors[key][i], nil
	}
	ordinal, ok := e.keyIndex[key]
	if !ok {
		return 0, eclerr.New(eclerr.NotFound, "key %q not found", key)
	}
	step := e.steps[i]
	pos := e.arrayPos[step.specIdx][ordinal]
	if pos < 0 {
		return float32(math.NaN()), nil
	}
	return readParamElement(step.ef, step.paramsIdx, pos)
}

// LoadAll materializes every unioned key's time series in a single pass
// over every PARAMS record, preferred over repeated Get calls when most
// keys will be needed (spec.md §4.5's load_all()).
func (e *ESmry) LoadAll() error {
	vecs := make([][]float32, len(e.keys))
	for i := range vecs {
		vecs[i] = make([]float32, len(e.steps))
	}

	for stepIdx, step := range e.steps {
		values, err := eclfile.GetAt[float32](step.ef, step.paramsIdx)
		if err != nil {
			return err
		}
		for ordinal, pos := range e.arrayPos[step.specIdx] {
			if pos < 0 || pos >= len(values) {
				vecs[ordinal][stepIdx] = float32(math.NaN())
				continue
			}
			vecs[ordinal][stepIdx] = values[pos]
		}
	}

	for ordinal, key := range e.keys {
		e.vectors[key] = vecs[ordinal]
		e.vectorLoaded[key] = true
	}
	return nil
}

// readParamElement fetches the p-th float of the PARAMS record at
// ef.RecordAt(paramsIdx) by computing its exact byte offset and reading
// just that element, per spec.md §4.5's load(keys) formulas.
func readParamElement(ef *eclfile.EclFile, paramsIdx, p int) (float32, error) {
	rec, err := ef.RecordAt(paramsIdx)
	if err != nil {
		return 0, err
	}

	f, err := os.Open(ef.Path())
	if err != nil {
		return 0, eclerr.Wrap(eclerr.IOError, ef.Path(), err, "failed to open file")
	}
	defer f.Close()

	if ef.Formatted() {
		return readParamElementFormatted(f, ef.Path(), rec, p)
	}
	return readParamElementBinary(f, ef.Path(), rec, p)
}

func readParamElementBinary(f *os.File, path string, rec eclfile.Record, p int) (float32, error) {
	maxPerBlock, err := blockio.MaxPerBlock(blockio.REAL)
	if err != nil {
		return 0, err
	}
	nFull := p / maxPerBlock
	offset := rec.Offset + (int64(2*nFull+1))*4 + int64(p)*4

	if _, err := f.Seek(offset, 0); err != nil {
		return 0, eclerr.Wrap(eclerr.IOError, path, err, "failed to seek into PARAMS")
	}
	var raw [4]byte
	if _, err := f.Read(raw[:]); err != nil {
		return 0, eclerr.Wrap(eclerr.IOError, path, err, "failed to read PARAMS element")
	}
	bits := uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
	return math.Float32frombits(bits), nil
}

func readParamElementFormatted(f *os.File, path string, rec eclfile.Record, p int) (float32, error) {
	maxPerBlock, err := blockio.MaxPerBlock(blockio.REAL)
	if err != nil {
		return 0, err
	}
	columns, width, ok := blockio.ColumnsAndWidth(blockio.REAL)
	if !ok {
		return 0, eclerr.New(eclerr.Malformed, "unrecognized REAL layout")
	}

	nBlocks := p / maxPerBlock
	rem := p % maxPerBlock
	nLines := rem / columns

	fullBlockRows := maxPerBlock / columns
	blockDiskSize := int64(fullBlockRows) * (int64(columns*width) + 1)

	offset := rec.Offset + int64(nBlocks)*blockDiskSize + int64(rem)*int64(width) + int64(nLines)

	if _, err := f.Seek(offset, 0); err != nil {
		return 0, eclerr.Wrap(eclerr.IOError, path, err, "failed to seek into PARAMS")
	}
	raw := make([]byte, width)
	if _, err := f.Read(raw); err != nil {
		return 0, eclerr.Wrap(eclerr.IOError, path, err, "failed to read PARAMS element")
	}
	text := strings.TrimSpace(strings.Replace(string(raw), "D", "E", 1))
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, eclerr.NewAt(eclerr.Malformed, path, rec.Name, offset, "invalid float %q", text)
	}
	return float32(v), nil
}

// Dates returns one time.Time per time step, computed as the run's
// STARTDAT plus TIME[i] days, per spec.md §4.5.
func (e *ESmry) Dates() ([]time.Time, error) {
	timeVec, err := e.Get("TIME")
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(timeVec))
	for i, t := range e.steps {
		start := e.chain[t.specIdx].startdat
		base := time.Date(start.Year, time.Month(start.Month), start.Day,
			start.Hour, start.Minute, 0, start.Micro*1000, time.UTC)
		out[i] = base.Add(time.Duration(float64(timeVec[i]) * 86400 * float64(time.Second)))
	}
	return out, nil
}

// DatesAtReportstep returns Dates() filtered to report-step boundaries
// only, per spec.md §9's supplemented API surface.
func (e *ESmry) DatesAtReportstep() ([]time.Time, error) {
	all, err := e.Dates()
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for i, t := range e.steps {
		if t.isReportStep {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// GetAtReportstep returns Get(key) filtered to report-step boundaries only.
func (e *ESmry) GetAtReportstep(key string) ([]float32, error) {
	all, err := e.Get(key)
	if err != nil {
		return nil, err
	}
	var out []float32
	for i, t := range e.steps {
		if t.isReportStep {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// MiniSteps returns the raw MINISTEP integer preceding each time step.
func (e *ESmry) MiniSteps() ([]int32, error) {
	if len(e.steps) > 0 && e.steps[0].ef == nil {
		// Opened with OpenESMRY: the mini steps live in its TSTEP record.
		ef, err := eclfile.Open(e.path)
		if err != nil {
			return nil, err
		}
		return eclfile.Get[int32](ef, "TSTEP")
	}
	out := make([]int32, len(e.steps))
	for i, step := range e.steps {
		if step.miniStepIdx < 0 {
			continue
		}
		vals, err := eclfile.GetAt[int32](step.ef, step.miniStepIdx)
		if err != nil {
			return nil, err
		}
		if len(vals) > 0 {
			out[i] = vals[0]
		}
	}
	return out, nil
}

// ReportSteps returns a 0/1 flag per time step, 1 when that step is a
// report step (preceded by SEQHDR), matching ESMRY's RSTEP record.
func (e *ESmry) ReportSteps() []int32 {
	out := make([]int32, len(e.steps))
	for i, t := range e.steps {
		if t.isReportStep {
			out[i] = 1
		}
	}
	return out
}
