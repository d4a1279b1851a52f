// Package egrid interprets an EclFile's record directory as corner-point
// reservoir grid geometry: active-cell indexing, pillar/depth corner
// reconstruction, map-axes projection and non-neighbor-connection
// cross-referencing against a companion INIT file (spec.md §4.3). It's
// grounded on opm/io/eclipse/EGrid.cpp in _examples/original_source.
package egrid

import (
	"log"
	"math"
	"strings"

	"github.com/ecl-tools/eclio/lib/eclerr"
	"github.com/ecl-tools/eclio/lib/eclfile"
)

// Grid is one corner-point grid context: the global reservoir grid, or one
// local grid refinement (LGR) nested inside it. Global grids have Name "".
type Grid struct {
	Name string

	NX, NY, NZ int
	NumRes     int
	Radial     bool
	Res        []int // per layer k, reservoir index in [0, NumRes)
	HostNIJK   [3]int

	ActIndex  []int // global cell index -> active index, or -1
	GlobIndex []int // active index -> global cell index

	coordIdx, zcornIdx, actnumIdx, coordsysIdx, hostnumIdx int
}

// HostCellsIJK decodes this grid's HOSTNUM record into (i,j,k) triples in
// the enclosing grid, per EGrid.cpp::hostCellsIJK. HOSTNUM only appears on
// LGRs (spec.md's EGRID record table); the global grid has none and this
// returns an empty slice for it.
func (g *Grid) HostCellsIJK(ef *eclfile.EclFile) ([][3]int, error) {
	if g.hostnumIdx < 0 {
		return nil, nil
	}
	hostnum, err := eclfile.GetAt[int32](ef, g.hostnumIdx)
	if err != nil {
		return nil, err
	}
	nx, ny := g.HostNIJK[0], g.HostNIJK[1]
	if nx <= 0 || ny <= 0 {
		return nil, eclerr.New(eclerr.Malformed, "LGR %q has HOSTNUM but no host grid dimensions", g.Name)
	}
	out := make([][3]int, len(hostnum))
	for idx, v := range hostnum {
		global := int(v) - 1
		k := global / (nx * ny)
		rest := global % (nx * ny)
		j := rest / nx
		i := rest % nx
		out[idx] = [3]int{i, j, k}
	}
	return out, nil
}

// NActive returns the number of active cells in the grid.
func (g *Grid) NActive() int { return len(g.GlobIndex) }

// GlobalIndex maps 0-based (i,j,k) to the flat global cell index, per
// spec.md §4.3.
func (g *Grid) GlobalIndex(i, j, k int) (int, error) {
	if i < 0 || i >= g.NX || j < 0 || j >= g.NY || k < 0 || k >= g.NZ {
		return 0, eclerr.New(eclerr.InvalidArgument, "i, j or/and k out of range")
	}
	return i + j*g.NX + k*g.NX*g.NY, nil
}

// IJKFromGlobal is the inverse of GlobalIndex.
func (g *Grid) IJKFromGlobal(global int) (i, j, k int, err error) {
	if global < 0 || global >= g.NX*g.NY*g.NZ {
		return 0, 0, 0, eclerr.New(eclerr.InvalidArgument, "i, j or/and k out of range")
	}
	k = global / (g.NX * g.NY)
	rest := global % (g.NX * g.NY)
	j = rest / g.NX
	i = rest % g.NX
	return i, j, k, nil
}

// ActiveIndex returns the active-cell index of (i,j,k), or -1 if the cell
// is inactive.
func (g *Grid) ActiveIndex(i, j, k int) (int, error) {
	global, err := g.GlobalIndex(i, j, k)
	if err != nil {
		return 0, err
	}
	return g.ActIndex[global], nil
}

// IJKFromActive is the inverse of ActiveIndex over [0, NActive()).
func (g *Grid) IJKFromActive(active int) (i, j, k int, err error) {
	if active < 0 || active >= len(g.GlobIndex) {
		return 0, 0, 0, eclerr.New(eclerr.InvalidArgument, "i, j or/and k out of range")
	}
	return g.IJKFromGlobal(g.GlobIndex[active])
}

// ReservoirOf returns the reservoir index assigned to layer k.
func (g *Grid) ReservoirOf(k int) (int, error) {
	if k < 0 || k >= len(g.Res) {
		return 0, eclerr.New(eclerr.InvalidArgument, "i, j or/and k out of range")
	}
	return g.Res[k], nil
}

// NNC is one non-neighbor connection between two cells identified by 0-based
// ijk, with an optional transmissibility from a companion INIT file.
type NNC struct {
	I1, J1, K1 int
	I2, J2, K2 int
	Trans      float32 // -1 when no INIT file/TRANNNC was available
}

// EGrid is a parsed EGRID directory: the global grid, its local grid
// refinements by name, map-axes projection parameters, and cross-validated
// non-neighbor connections.
type EGrid struct {
	ef   *eclfile.EclFile
	path string

	Global *Grid
	LGRs   map[string]*Grid

	lgrOrder []string

	HasMapAxes bool
	Origin     [2]float64
	UnitX      [2]float64
	UnitY      [2]float64

	NNCs []NNC

	// NNC1, NNC2 are the raw 1-based global cell indices backing NNCs,
	// kept for callers cross-referencing against other global-index arrays
	// (e.g. TRANNNC) rather than wanting ijk tuples.
	NNC1, NNC2 []int32

	logger *log.Logger
}

// HostCellsIJK decodes the named LGR's HOSTNUM record into host-grid (i,j,k)
// triples. Pass "" for the global grid, which always returns an empty
// slice (it has no HOSTNUM).
func (eg *EGrid) HostCellsIJK(lgrName string) ([][3]int, error) {
	g := eg.Global
	if lgrName != "" {
		var ok bool
		g, ok = eg.LGRs[lgrName]
		if !ok {
			return nil, eclerr.New(eclerr.InvalidArgument, "no such LGR %q", lgrName)
		}
	}
	return g.HostCellsIJK(eg.ef)
}

// GetNNCIJK returns the non-neighbor connections as display-ready ijk
// tuples, per EGrid.cpp::get_nnc_ijk. Equivalent to NNCs; provided under the
// original's name for callers porting code against it.
func (eg *EGrid) GetNNCIJK() []NNC { return eg.NNCs }

// Option configures Open beyond its required path argument.
type Option func(*options)

type options struct {
	logger      *log.Logger
	withInit    bool
	initPath    string
}

// WithLogger routes internal diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithInitFile overrides the default same-stem INIT/FINIT lookup used for
// TRANNNC cross-validation.
func WithInitFile(path string) Option {
	return func(o *options) { o.withInit = true; o.initPath = path }
}

func resolveOptions(opts []Option) *options {
	o := &options{logger: log.New(discardWriter{}, "", 0)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// mapUnitFactor converts a length unit string to a metres multiplier
// (spec.md §3): metres=1, feet=0.3048, cm=0.01.
func mapUnitFactor(unit string) float64 {
	switch strings.TrimSpace(strings.ToUpper(unit)) {
	case "FEET", "FT":
		return 0.3048
	case "CM":
		return 0.01
	default:
		return 1.0
	}
}

// Open opens path as an EclFile and builds an EGrid from its record
// directory, tracking LGR/NNCHEAD context as it walks records in file
// order (spec.md §4.3's table).
func Open(path string, opts ...Option) (*EGrid, error) {
	o := resolveOptions(opts)

	ef, err := eclfile.Open(path, eclfile.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	eg := &EGrid{
		ef:     ef,
		path:   path,
		Global: &Grid{coordIdx: -1, zcornIdx: -1, actnumIdx: -1, coordsysIdx: -1, hostnumIdx: -1},
		LGRs:   map[string]*Grid{},
		logger: o.logger,
	}

	mapUnits := 1.0
	var nnchead []int32
	var nnc1Idx, nnc2Idx int = -1, -1
	currentLGR := ""
	nncContext := ""

	gridFor := func(name string) *Grid {
		if name == "" {
			return eg.Global
		}
		g, ok := eg.LGRs[name]
		if !ok {
			g = &Grid{Name: name, coordIdx: -1, zcornIdx: -1, actnumIdx: -1, coordsysIdx: -1, hostnumIdx: -1}
			eg.LGRs[name] = g
			eg.lgrOrder = append(eg.lgrOrder, name)
		}
		return g
	}

	for i, r := range ef.List() {
		switch r.Name {
		case "LGR":
			names, err := eclfile.GetAt[string](ef, i)
			if err != nil {
				return nil, err
			}
			if len(names) == 0 {
				return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "empty LGR record")
			}
			currentLGR = strings.TrimSpace(names[0])
			gridFor(currentLGR)

		case "ENDLGR":
			currentLGR = ""

		case "NNCHEAD":
			nnchead, err = eclfile.GetAt[int32](ef, i)
			if err != nil {
				return nil, err
			}
			if len(nnchead) < 2 {
				return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "NNCHEAD record too short")
			}
			if nnchead[1] <= 0 {
				nncContext = ""
			} else if int(nnchead[1]) <= len(eg.lgrOrder) {
				nncContext = eg.lgrOrder[nnchead[1]-1]
			}

		case "MAPUNITS":
			units, err := eclfile.GetAt[string](ef, i)
			if err == nil && len(units) > 0 {
				mapUnits = mapUnitFactor(units[0])
			}

		case "MAPAXES":
			vals, err := eclfile.GetAt[float32](ef, i)
			if err != nil {
				return nil, err
			}
			if len(vals) < 6 {
				return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "MAPAXES record too short")
			}
			setMapAxes(eg, vals, mapUnits)

		case "GRIDHEAD":
			vals, err := eclfile.GetAt[int32](ef, i)
			if err != nil {
				return nil, err
			}
			if len(vals) < 4 {
				return nil, eclerr.NewAt(eclerr.Malformed, path, r.Name, r.Offset, "GRIDHEAD record too short")
			}
			g := gridFor(currentLGR)
			g.NX, g.NY, g.NZ = int(vals[1]), int(vals[2]), int(vals[3])
			g.NumRes = 1
			if len(vals) > 24 && vals[24] > 0 {
				g.NumRes = int(vals[24])
			}
			if len(vals) > 26 && vals[26] > 0 {
				g.Radial = true
			}

		case "COORD":
			gridFor(currentLGR).coordIdx = i
		case "ZCORN":
			gridFor(currentLGR).zcornIdx = i
		case "ACTNUM":
			gridFor(currentLGR).actnumIdx = i
		case "COORDSYS":
			gridFor(currentLGR).coordsysIdx = i
		case "HOSTNUM":
			gridFor(currentLGR).hostnumIdx = i

		case "NNC1":
			nnc1Idx = i
		case "NNC2":
			nnc2Idx = i
		}
	}
	_ = nncContext

	if err := finalizeGrid(ef, eg.Global); err != nil {
		return nil, err
	}
	for _, name := range eg.lgrOrder {
		lgr := eg.LGRs[name]
		lgr.HostNIJK = [3]int{eg.Global.NX, eg.Global.NY, eg.Global.NZ}
		if err := finalizeGrid(ef, lgr); err != nil {
			return nil, err
		}
	}

	if nnc1Idx >= 0 && nnc2Idx >= 0 {
		if err := eg.loadNNCs(nnc1Idx, nnc2Idx, o); err != nil {
			return nil, err
		}
	}

	return eg, nil
}

func setMapAxes(eg *EGrid, vals []float32, factor float64) {
	scaled := make([]float64, 6)
	for i, v := range vals[:6] {
		scaled[i] = float64(v) * factor
	}
	originX, originY := scaled[2], scaled[3]
	yEndX, yEndY := scaled[0], scaled[1]
	xEndX, xEndY := scaled[4], scaled[5]

	unitY := normalize(yEndX-originX, yEndY-originY)
	unitX := normalize(xEndX-originX, xEndY-originY)

	eg.HasMapAxes = true
	eg.Origin = [2]float64{originX, originY}
	eg.UnitX = unitX
	eg.UnitY = unitY
}

func normalize(x, y float64) [2]float64 {
	n := math.Hypot(x, y)
	if n == 0 {
		return [2]float64{0, 0}
	}
	return [2]float64{x / n, y / n}
}

// ToMapCoords applies the map-axes affine transform to a grid-local (x,y),
// per spec.md §4.3. If no MAPAXES was present, x and y pass through
// unchanged.
func (eg *EGrid) ToMapCoords(x, y float64) (float64, float64) {
	if !eg.HasMapAxes {
		return x, y
	}
	mx := eg.Origin[0] + x*eg.UnitX[0] + y*eg.UnitY[0]
	my := eg.Origin[1] + x*eg.UnitX[1] + y*eg.UnitY[1]
	return mx, my
}

func finalizeGrid(ef *eclfile.EclFile, g *Grid) error {
	if g.NX == 0 && g.NY == 0 && g.NZ == 0 {
		return nil // never saw a GRIDHEAD for this context; leave inert
	}

	n := g.NX * g.NY * g.NZ
	if g.actnumIdx >= 0 {
		actnum, err := eclfile.GetAt[int32](ef, g.actnumIdx)
		if err != nil {
			return err
		}
		if len(actnum) != n {
			return eclerr.New(eclerr.Mismatch, "ACTNUM has %d elements, grid has %d cells", len(actnum), n)
		}
		g.ActIndex = make([]int, n)
		g.GlobIndex = g.GlobIndex[:0]
		active := 0
		for gi, v := range actnum {
			if v > 0 {
				g.ActIndex[gi] = active
				g.GlobIndex = append(g.GlobIndex, gi)
				active++
			} else {
				g.ActIndex[gi] = -1
			}
		}
	} else {
		g.ActIndex = make([]int, n)
		g.GlobIndex = make([]int, n)
		for gi := 0; gi < n; gi++ {
			g.ActIndex[gi] = gi
			g.GlobIndex[gi] = gi
		}
	}

	g.Res = make([]int, g.NZ)
	if g.coordsysIdx >= 0 {
		cs, err := eclfile.GetAt[int32](ef, g.coordsysIdx)
		if err != nil {
			return err
		}
		for r := 0; r+1 < len(cs); r += 6 {
			l1, l2 := int(cs[r]), int(cs[r+1])
			resIdx := r / 6
			for l := l1 - 1; l < l2 && l < len(g.Res); l++ {
				if l >= 0 {
					g.Res[l] = resIdx
				}
			}
		}
	}

	return nil
}
