package esmry

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ecl-tools/eclio/lib/eclerr"
	"github.com/ecl-tools/eclio/lib/eclfile"
)

// timeStep locates one PARAMS record: which spec file owns it, which result
// file (already opened as an EclFile) it lives in, and the directory index
// of the PARAMS record within that file (spec.md §3's "Time-step list").
type timeStep struct {
	specIdx      int
	ef           *eclfile.EclFile
	paramsIdx    int
	miniStepIdx  int // directory index of the preceding MINISTEP record, -1 if none
	isReportStep bool
}

// discoverResultFiles locates a run's UNSMRY (or numbered .Snnnn/.Annnn)
// files, preferring a unified file over numbered siblings when it's present
// and not older than them (spec.md §4.5).
func discoverResultFiles(spec *specFile) ([]resultFile, error) {
	root := spec.resultRoot()
	dir := filepath.Dir(root)
	base := filepath.Base(root)

	unifiedExt, numberedPrefix, formattedNumberedPrefix := ".UNSMRY", ".S", ".A"
	if spec.formatted() {
		unifiedExt = ".FUNSMRY"
	}
	unifiedPath := root + unifiedExt

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eclerr.Wrap(eclerr.IOError, dir, err, "failed to list result directory")
	}

	var numbered []string
	var unifiedInfo, newestNumbered os.FileInfo
	for _, e := range entries {
		if e.IsDir() || filepath.Base(e.Name()) == "" {
			continue
		}
		if filepath.Base(e.Name()) == filepath.Base(unifiedPath) {
			if info, err := e.Info(); err == nil {
				unifiedInfo = info
			}
			continue
		}
		if len(e.Name()) <= len(base) || e.Name()[:len(base)] != base {
			continue
		}
		suffix := e.Name()[len(base):]
		if len(suffix) < 2 {
			continue
		}
		if hasNumberedExt(suffix, numberedPrefix) || hasNumberedExt(suffix, formattedNumberedPrefix) {
			numbered = append(numbered, filepath.Join(dir, e.Name()))
			if info, err := e.Info(); err == nil {
				if newestNumbered == nil || info.ModTime().After(newestNumbered.ModTime()) {
					newestNumbered = info
				}
			}
		}
	}
	sort.Strings(numbered)

	if unifiedInfo != nil && (newestNumbered == nil || !newestNumbered.ModTime().After(unifiedInfo.ModTime())) {
		return []resultFile{{path: unifiedPath, unified: true}}, nil
	}
	if len(numbered) > 0 {
		out := make([]resultFile, len(numbered))
		for i, p := range numbered {
			out[i] = resultFile{path: p, unified: false}
		}
		return out, nil
	}
	if unifiedInfo != nil {
		return []resultFile{{path: unifiedPath, unified: true}}, nil
	}
	return nil, eclerr.New(eclerr.NotFound, "no UNSMRY or numbered result files found for %s", root)
}

func hasNumberedExt(suffix, prefix string) bool {
	if len(suffix) != len(prefix)+4 || suffix[:len(prefix)] != prefix {
		return false
	}
	for _, c := range suffix[len(prefix):] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// scanTimeSteps runs the state machine of spec.md §4.5 over one result
// file's directory, appending one timeStep per PARAMS record found.
func scanTimeSteps(specIdx int, ef *eclfile.EclFile) ([]timeStep, error) {
	const (
		expectMinistepOrSeqhdr = iota
		expectParams
	)
	state := expectMinistepOrSeqhdr
	pendingReportStep := false
	lastMiniStepIdx := -1

	var steps []timeStep
	for i, r := range ef.List() {
		switch r.Name {
		case "TNAVHEAD", "TNAVTIME":
			continue // vendor-specific records tolerated per spec.md §9's open question
		case "SEQHDR":
			if state != expectMinistepOrSeqhdr {
				return nil, eclerr.NewAt(eclerr.Malformed, ef.Path(), r.Name, r.Offset, "unexpected SEQHDR mid-step")
			}
			pendingReportStep = true
		case "MINISTEP":
			if state != expectMinistepOrSeqhdr {
				return nil, eclerr.NewAt(eclerr.Malformed, ef.Path(), r.Name, r.Offset, "unexpected MINISTEP")
			}
			lastMiniStepIdx = i
			state = expectParams
		case "PARAMS":
			if state != expectParams {
				return nil, eclerr.NewAt(eclerr.Malformed, ef.Path(), r.Name, r.Offset, "unexpected PARAMS")
			}
			steps = append(steps, timeStep{
				specIdx: specIdx, ef: ef, paramsIdx: i,
				miniStepIdx: lastMiniStepIdx, isReportStep: pendingReportStep,
			})
			pendingReportStep = false
			lastMiniStepIdx = -1
			state = expectMinistepOrSeqhdr
		default:
			return nil, eclerr.NewAt(eclerr.Malformed, ef.Path(), r.Name, r.Offset, "unexpected record %q in time-step stream", r.Name)
		}
	}
	return steps, nil
}
