package egrid

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ecl-tools/eclio/lib/eclerr"
	"github.com/ecl-tools/eclio/lib/eclfile"
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// loadNNCs reads NNC1/NNC2 and, when a companion INIT file is reachable,
// cross-validates grid dimensions and active-cell count and attaches
// TRANNNC transmissibilities, per spec.md §4.3.
func (eg *EGrid) loadNNCs(nnc1Idx, nnc2Idx int, o *options) error {
	nnc1, err := eclfile.GetAt[int32](eg.ef, nnc1Idx)
	if err != nil {
		return err
	}
	nnc2, err := eclfile.GetAt[int32](eg.ef, nnc2Idx)
	if err != nil {
		return err
	}
	if len(nnc1) != len(nnc2) {
		return eclerr.New(eclerr.Mismatch, "NNC1 has %d elements, NNC2 has %d", len(nnc1), len(nnc2))
	}

	trans := make([]float32, len(nnc1))
	for i := range trans {
		trans[i] = -1
	}

	initPath := o.initPath
	if !o.withInit {
		initPath = companionInitPath(eg.path)
	}
	if initPath != "" {
		if t, err := eg.loadTransNNC(initPath, len(nnc1)); err == nil {
			trans = t
		} else if o.withInit {
			return err // an explicitly requested INIT file must be usable
		}
	}

	eg.NNC1, eg.NNC2 = nnc1, nnc2

	eg.NNCs = make([]NNC, len(nnc1))
	for idx := range nnc1 {
		i1, j1, k1, err := eg.Global.IJKFromGlobal(int(nnc1[idx]) - 1)
		if err != nil {
			return err
		}
		i2, j2, k2, err := eg.Global.IJKFromGlobal(int(nnc2[idx]) - 1)
		if err != nil {
			return err
		}
		eg.NNCs[idx] = NNC{I1: i1, J1: j1, K1: k1, I2: i2, J2: j2, K2: k2, Trans: trans[idx]}
	}
	return nil
}

// companionInitPath returns the INIT (or FINIT) file alongside an EGRID
// (or FEGRID) path sharing the same stem, or "" if neither exists.
func companionInitPath(egridPath string) string {
	dir := filepath.Dir(egridPath)
	stem := strings.TrimSuffix(filepath.Base(egridPath), filepath.Ext(egridPath))
	for _, ext := range []string{".INIT", ".FINIT"} {
		candidate := filepath.Join(dir, stem+ext)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func (eg *EGrid) loadTransNNC(initPath string, wantLen int) ([]float32, error) {
	initFile, err := eclfile.Open(initPath, eclfile.WithLogger(eg.logger))
	if err != nil {
		return nil, err
	}

	gridhead, err := eclfile.Get[int32](initFile, "GRIDHEAD")
	if err != nil {
		return nil, err
	}
	if len(gridhead) < 4 {
		return nil, eclerr.New(eclerr.Malformed, "INIT GRIDHEAD record too short")
	}
	if int(gridhead[1]) != eg.Global.NX || int(gridhead[2]) != eg.Global.NY || int(gridhead[3]) != eg.Global.NZ {
		return nil, eclerr.New(eclerr.Mismatch,
			"INIT grid dimensions (%d,%d,%d) disagree with EGRID (%d,%d,%d)",
			gridhead[1], gridhead[2], gridhead[3], eg.Global.NX, eg.Global.NY, eg.Global.NZ)
	}

	if actnum, err := eclfile.Get[int32](initFile, "ACTNUM"); err == nil {
		nactive := 0
		for _, v := range actnum {
			if v > 0 {
				nactive++
			}
		}
		if nactive != eg.Global.NActive() {
			return nil, eclerr.New(eclerr.Mismatch,
				"INIT active-cell count %d disagrees with EGRID %d", nactive, eg.Global.NActive())
		}
	}

	trannnc, err := eclfile.Get[float32](initFile, "TRANNNC")
	if err != nil {
		return nil, err
	}
	if len(trannnc) != wantLen {
		return nil, eclerr.New(eclerr.Mismatch, "TRANNNC has %d elements, NNC1 has %d", len(trannnc), wantLen)
	}
	return trannnc, nil
}
