package egrid

import (
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/ecl-tools/eclio/lib/blockio"
	"github.com/ecl-tools/eclio/lib/eclerr"
	"github.com/ecl-tools/eclio/lib/eclfile"
)

// Point is a reconstructed cell-corner coordinate in grid-local xy (pre
// map-axes) and depth.
type Point struct {
	X, Y, Z float64
}

// Pillar is one COORD entry: a vertical-ish line carrying a top and bottom
// sample. For radial grids, X/Y are instead (r, theta-degrees) per
// spec.md §4.3.
type Pillar struct {
	XTop, YTop, ZTop float64
	XBot, YBot, ZBot float64
	isRadial         bool
}

// interpolatePillar finds the grid-local (x,y) at depth z along p, per
// spec.md §4.3's linear-interpolation rule. Degenerate pillars (equal top
// and bottom depth) collapse to the top sample.
func interpolatePillar(p Pillar, z float64) (x, y float64) {
	xt, yt, zt := p.XTop, p.YTop, p.ZTop
	xb, yb, zb := p.XBot, p.YBot, p.ZBot
	if p.isRadial {
		xt, yt = radialToXY(p.XTop, p.YTop)
		xb, yb = radialToXY(p.XBot, p.YBot)
	}
	if zt == zb {
		return xt, yt
	}
	frac := (zt - z) / (zt - zb)

	top := []float64{xt, yt}
	delta := []float64{xb, yb}
	floats.Sub(delta, top)
	floats.AddScaled(top, frac, delta)
	return top[0], top[1]
}

func radialToXY(r, thetaDeg float64) (x, y float64) {
	theta := thetaDeg * math.Pi / 180
	return r * math.Cos(theta), r * math.Sin(theta)
}

// CellCorners returns the eight corners of cell (i,j,k) in the grid's local
// (pre map-axes) coordinates, ordered top-then-bottom, each face
// front-bottom-left, front-bottom-right, back-bottom-left, back-bottom-right
// (the ZCORN element order of spec.md §3).
func (g *Grid) CellCorners(ef *eclfile.EclFile, i, j, k int) ([8]Point, error) {
	var out [8]Point
	if i < 0 || i >= g.NX || j < 0 || j >= g.NY || k < 0 || k >= g.NZ {
		return out, eclerr.New(eclerr.InvalidArgument, "i, j or/and k out of range")
	}
	if g.coordIdx < 0 || g.zcornIdx < 0 {
		return out, eclerr.New(eclerr.Malformed, "grid has no COORD/ZCORN data")
	}

	coord, err := eclfile.GetAt[float32](ef, g.coordIdx)
	if err != nil {
		return out, err
	}
	zcorn, err := eclfile.GetAt[float32](ef, g.zcornIdx)
	if err != nil {
		return out, err
	}

	reservoir := 0
	if k < len(g.Res) {
		reservoir = g.Res[k]
	}
	pillars := g.pillarsForCell(coord, i, j, reservoir)
	zvals := g.zcornForCell(zcorn, i, j, k)

	for corner := 0; corner < 8; corner++ {
		pillarIdx := corner % 4
		x, y := interpolatePillar(pillars[pillarIdx], zvals[corner])
		out[corner] = Point{X: x, Y: y, Z: zvals[corner]}
	}
	return out, nil
}

// pillarsForCell returns the four pillars bounding cell (i,j) in reservoir
// res: order front-bottom-left, front-bottom-right, back-bottom-left,
// back-bottom-right, matching ZCORN's corner order.
func (g *Grid) pillarsForCell(coord []float32, i, j, res int) [4]Pillar {
	stride := (g.NX + 1) * (g.NY + 1) * 6
	pillarAt := func(pi, pj int) Pillar {
		idx := res*stride + (pj*(g.NX+1)+pi)*6
		return Pillar{
			XTop: float64(coord[idx+0]), YTop: float64(coord[idx+1]), ZTop: float64(coord[idx+2]),
			XBot: float64(coord[idx+3]), YBot: float64(coord[idx+4]), ZBot: float64(coord[idx+5]),
			isRadial: g.Radial,
		}
	}
	return [4]Pillar{
		pillarAt(i, j), pillarAt(i+1, j), pillarAt(i, j+1), pillarAt(i+1, j+1),
	}
}

// zcornForCell returns the eight depth samples for cell (i,j,k), in
// top-then-bottom, front-bottom-left/front-bottom-right/back-bottom-left/
// back-bottom-right order.
func (g *Grid) zcornForCell(zcorn []float32, i, j, k int) [8]float64 {
	nx2 := 2 * g.NX
	ny2 := 2 * g.NY
	layerSize := nx2 * ny2
	at := func(di, dj, dk int) float64 {
		x := 2*i + di
		y := 2*j + dj
		z := 2*k + dk
		idx := z*layerSize + y*nx2 + x
		return float64(zcorn[idx])
	}
	return [8]float64{
		at(0, 0, 0), at(1, 0, 0), at(0, 1, 0), at(1, 1, 0),
		at(0, 0, 1), at(1, 0, 1), at(0, 1, 1), at(1, 1, 1),
	}
}

// XYZLayer returns the (x,y,z) grid-local coordinates at the four top or
// bottom corners of every cell (i,j,k) in box [i1,i2]x[j1,j2], for the given
// k, per spec.md §4.3's xyz_layer. Every ZCORN element is read directly
// from disk, re-synchronizing on block headers/trailers as elements are
// consumed (spec.md §9's "non-obvious bit-level invariant"); a ZCORN copy
// already cached on ef is not consulted.
func (g *Grid) XYZLayer(ef *eclfile.EclFile, k, i1, i2, j1, j2 int, bottom bool) ([]Point, error) {
	if ef.Formatted() {
		return nil, eclerr.New(eclerr.InvalidArgument, "partial reads of formatted files are not supported")
	}
	if g.zcornIdx < 0 || g.coordIdx < 0 {
		return nil, eclerr.New(eclerr.Malformed, "grid has no COORD/ZCORN data")
	}

	coord, err := eclfile.GetAt[float32](ef, g.coordIdx)
	if err != nil {
		return nil, err
	}

	dk := 0
	if bottom {
		dk = 1
	}
	out := make([]Point, 0, (i2-i1+1)*(j2-j1+1)*4)
	for j := j1; j <= j2; j++ {
		for i := i1; i <= i2; i++ {
			reservoir := 0
			if k < len(g.Res) {
				reservoir = g.Res[k]
			}
			pillars := g.pillarsForCell(coord, i, j, reservoir)
			for corner := 0; corner < 4; corner++ {
				z, err := g.readZCorn(ef, i, j, k, corner, dk)
				if err != nil {
					return nil, err
				}
				x, y := interpolatePillar(pillars[corner], z)
				out = append(out, Point{X: x, Y: y, Z: z})
			}
		}
	}
	return out, nil
}

// readZCorn fetches one ZCORN element by computing its flat index and
// seeking directly to the data block that holds it, re-synchronizing on
// that block's header/trailer pair (spec.md §4.3/§9).
func (g *Grid) readZCorn(ef *eclfile.EclFile, i, j, k, cornerXY, dk int) (float64, error) {
	rec, err := recordOf(ef, g.zcornIdx)
	if err != nil {
		return 0, err
	}

	nx2, ny2 := 2*g.NX, 2*g.NY
	layerSize := nx2 * ny2
	dCornerX := cornerXY % 2
	dCornerY := cornerXY / 2
	x := 2*i + dCornerX
	y := 2*j + dCornerY
	z := 2*k + dk
	flatIdx := z*layerSize + y*nx2 + x

	maxPerBlock, err := blockio.MaxPerBlock(rec.Type)
	if err != nil {
		return 0, err
	}
	blockNo := flatIdx / maxPerBlock
	within := flatIdx % maxPerBlock

	f, err := os.Open(ef.Path())
	if err != nil {
		return 0, eclerr.Wrap(eclerr.IOError, ef.Path(), err, "failed to open file")
	}
	defer f.Close()

	offset := rec.Offset
	blocks := blockio.Blocks(rec.Count, maxPerBlock)
	if blockNo >= len(blocks) {
		return 0, eclerr.New(eclerr.InvalidArgument, "i, j or/and k out of range")
	}
	for b := 0; b < blockNo; b++ {
		offset += 8 + int64(blocks[b].Count*4)
	}
	elementOffset := offset + 4 + int64(within)*4

	if _, err := f.Seek(elementOffset, 0); err != nil {
		return 0, eclerr.Wrap(eclerr.IOError, ef.Path(), err, "failed to seek into ZCORN")
	}
	var raw [4]byte
	if _, err := f.Read(raw[:]); err != nil {
		return 0, eclerr.Wrap(eclerr.IOError, ef.Path(), err, "failed to read ZCORN element")
	}
	bits := uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
	return float64(math.Float32frombits(bits)), nil
}

func recordOf(ef *eclfile.EclFile, idx int) (eclfile.Record, error) {
	return ef.RecordAt(idx)
}
