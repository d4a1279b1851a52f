package esmry

import (
	"strings"

	"github.com/ecl-tools/eclio/lib/eclfile"
)

// OpenESMRY reads back a compact derived ESMRY file written by WriteESMRY,
// reconstructing the same flat vector set without re-walking a restart
// chain or re-discovering result files (spec.md §4.5's round-trip).
func OpenESMRY(path string) (*ESmry, error) {
	ef, err := eclfile.Open(path)
	if err != nil {
		return nil, err
	}

	keys, err := eclfile.Get[string](ef, "KEYCHECK")
	if err != nil {
		return nil, err
	}
	units, err := eclfile.Get[string](ef, "UNITS")
	if err != nil {
		return nil, err
	}
	rstep, err := eclfile.Get[int32](ef, "RSTEP")
	if err != nil {
		return nil, err
	}

	e := &ESmry{
		path:     path,
		keys:     keys,
		units:    units,
		keyIndex: map[string]int{},
		vectors:  map[string][]float32{},
		vectorLoaded: map[string]bool{},
	}
	for i, k := range keys {
		e.keyIndex[k] = i
	}

	e.steps = make([]timeStep, len(rstep))
	for i, v := range rstep {
		e.steps[i] = timeStep{isReportStep: v != 0}
	}

	for ordinal, key := range keys {
		vec, err := eclfile.Get[float32](ef, vectorRecordName(ordinal))
		if err != nil {
			return nil, err
		}
		e.vectors[key] = vec
		e.vectorLoaded[key] = true
	}

	if startRec, err := eclfile.Get[int32](ef, "START"); err == nil && len(startRec) >= 6 {
		millis := 0
		if len(startRec) >= 7 {
			millis = int(startRec[6])
		}
		e.chain = []*specFile{{startdat: Date{
			Day: int(startRec[0]), Month: int(startRec[1]), Year: int(startRec[2]),
			Hour: int(startRec[3]), Minute: int(startRec[4]),
			Micro: int(startRec[5])*1000000 + millis*1000,
		}}}
		for i := range e.steps {
			e.steps[i].specIdx = 0
		}
	}

	if restart, err := eclfile.Get[string](ef, "RESTART"); err == nil && len(restart) > 0 && len(e.chain) > 0 {
		e.chain[0].restartRoot = strings.TrimRight(restart[0], " ")
		if rstnum, err := eclfile.Get[int32](ef, "RSTNUM"); err == nil && len(rstnum) > 0 {
			e.chain[0].restartStep = int(rstnum[0])
		}
	}

	return e, nil
}
