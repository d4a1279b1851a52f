// Package esmry resolves a (possibly restart-chained) Eclipse summary run
// into a single flat, keyword-indexed time series, materializing vectors on
// demand and optionally repacking them into the compact ESMRY derived
// format (spec.md §4.5). It's grounded on opm/io/eclipse/ESmry.cpp in
// _examples/original_source.
package esmry

import (
	"path/filepath"
	"strings"

	"github.com/ecl-tools/eclio/lib/eclerr"
	"github.com/ecl-tools/eclio/lib/eclfile"
	"github.com/ecl-tools/eclio/lib/keybuilder"
)

// Date is a decoded STARTDAT: day, month, year and optional time-of-day
// fields (spec.md §6).
type Date struct {
	Day, Month, Year int
	Hour, Minute     int
	Micro            int
}

// SummaryNode describes one summary column: its normalized keyword,
// category, well/group name, packed num, and unit (spec.md §3).
type SummaryNode struct {
	Keyword  string
	Category keybuilder.Category
	WGName   string
	Num      int32
	Unit     string
	LGR      string
}

// specFile is one SMSPEC in a restart chain, plus the per-run metadata
// needed to locate and decode its result files.
type specFile struct {
	path string
	ef   *eclfile.EclFile

	nlist       int
	nx, ny, nz  int
	restartStep int
	restartRoot string

	keys  []string // per-column canonical key, "" for an unaddressable column
	nodes []SummaryNode
	units []string

	startdat Date

	resultFiles []resultFile
}

type resultFile struct {
	path     string
	unified  bool
}

// NoWGName is the padded sentinel meaning "no well or group" (spec.md §6).
const NoWGName = keybuilder.NoWGName

func openSpec(path string) (*specFile, error) {
	ef, err := eclfile.Open(path)
	if err != nil {
		return nil, err
	}

	s := &specFile{path: path, ef: ef}

	dimens, err := eclfile.Get[int32](ef, "DIMENS")
	if err != nil {
		return nil, err
	}
	if len(dimens) < 6 {
		return nil, eclerr.New(eclerr.Malformed, "DIMENS record too short in %s", path)
	}
	s.nlist = int(dimens[0])
	s.nx, s.ny, s.nz = int(dimens[1]), int(dimens[2]), int(dimens[3])
	s.restartStep = int(dimens[5])

	if restart, err := eclfile.Get[string](ef, "RESTART"); err == nil {
		s.restartRoot = strings.TrimRight(strings.Join(restart, ""), " ")
	}

	keywords, err := eclfile.Get[string](ef, "KEYWORDS")
	if err != nil {
		return nil, err
	}

	wgnames, err := eclfile.Get[string](ef, "WGNAMES")
	if err != nil {
		wgnames, err = eclfile.Get[string](ef, "NAMES")
	}
	if err != nil {
		wgnames = make([]string, len(keywords))
	}

	nums, err := eclfile.Get[int32](ef, "NUMS")
	if err != nil {
		nums = make([]int32, len(keywords))
	}

	units, err := eclfile.Get[string](ef, "UNITS")
	if err != nil {
		units = make([]string, len(keywords))
	}

	lgrNames, _ := eclfile.Get[string](ef, "LGRS")

	if len(keywords) != s.nlist {
		return nil, eclerr.New(eclerr.Mismatch, "KEYWORDS has %d entries, DIMENS says %d in %s", len(keywords), s.nlist, path)
	}

	s.keys = make([]string, s.nlist)
	s.nodes = make([]SummaryNode, s.nlist)
	s.units = make([]string, s.nlist)

	for i := 0; i < s.nlist; i++ {
		keyword, num := normalizeKeyword(keywords[i], safeInt32At(nums, i))
		wg := ""
		if i < len(wgnames) {
			wg = strings.TrimRight(wgnames[i], " ")
		}
		lgr := ""
		if i < len(lgrNames) {
			lgr = strings.TrimRight(lgrNames[i], " ")
		}
		unit := ""
		if i < len(units) {
			unit = strings.TrimRight(units[i], " ")
		}

		key, err := keybuilder.MakeKeyString(keyword, keybuilder.Context{WGName: wg, Num: num, NX: s.nx, NY: s.ny, LGR: lgr})
		if err != nil {
			key = "" // unaddressable column; still occupies a PARAMS slot
		}

		s.keys[i] = key
		s.units[i] = unit
		s.nodes[i] = SummaryNode{
			Keyword: keyword, Category: keybuilder.CategoryOf(keyword),
			WGName: wg, Num: num, Unit: unit, LGR: lgr,
		}
	}

	if startdat, err := eclfile.Get[int32](ef, "STARTDAT"); err == nil {
		s.startdat = decodeStartdat(startdat)
	}

	return s, nil
}

func safeInt32At(nums []int32, i int) int32 {
	if i < len(nums) {
		return nums[i]
	}
	return 0
}

// normalizeKeyword strips a well-completion keyword's trailing padding
// (e.g. "WOPRL__1" -> "WOPRL", num=1), per spec.md §4.4. If keyword has no
// such suffix, num passes through unchanged.
func normalizeKeyword(keyword string, num int32) (string, int32) {
	trimmed := strings.TrimRight(keyword, " ")
	if !keybuilder.IsWellCompletion(trimmed) {
		return trimmed, num
	}
	// A padded well-completion keyword looks like "WOPRL__8": strip
	// trailing underscores/digits back to the 5-char root and fold the
	// numeric suffix into num when present and num itself is unset.
	root := trimmed
	i := len(root)
	for i > 0 && (root[i-1] == '_' || (root[i-1] >= '0' && root[i-1] <= '9')) {
		i--
	}
	if i < len(root) && i >= 5 {
		suffix := strings.Trim(root[i:], "_")
		root = root[:i]
		if suffix != "" && num == 0 {
			if v, err := parseDecimal(suffix); err == nil {
				num = v
			}
		}
	}
	return root, num
}

func parseDecimal(s string) (int32, error) {
	var v int32
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, eclerr.New(eclerr.Malformed, "non-numeric completion suffix %q", s)
		}
		v = v*10 + int32(c-'0')
	}
	return v, nil
}

// decodeStartdat decodes STARTDAT's (d,m,y[,h,mi,us]) layout (spec.md §6).
func decodeStartdat(vals []int32) Date {
	d := Date{}
	if len(vals) >= 3 {
		d.Day, d.Month, d.Year = int(vals[0]), int(vals[1]), int(vals[2])
	}
	if len(vals) >= 6 {
		d.Hour, d.Minute, d.Micro = int(vals[3]), int(vals[4]), int(vals[5])
	}
	return d
}

func (s *specFile) resultRoot() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path))
}

func (s *specFile) formatted() bool {
	return s.ef.Formatted()
}
