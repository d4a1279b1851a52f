package egrid

import "testing"

func makeGrid(nx, ny, nz int, actnum []int32) *Grid {
	g := &Grid{NX: nx, NY: ny, NZ: nz}
	n := nx * ny * nz
	if actnum == nil {
		g.ActIndex = make([]int, n)
		g.GlobIndex = make([]int, n)
		for i := 0; i < n; i++ {
			g.ActIndex[i] = i
			g.GlobIndex[i] = i
		}
		return g
	}
	g.ActIndex = make([]int, n)
	active := 0
	for i, v := range actnum {
		if v > 0 {
			g.ActIndex[i] = active
			g.GlobIndex = append(g.GlobIndex, i)
			active++
		} else {
			g.ActIndex[i] = -1
		}
	}
	return g
}

func TestGlobalIndexRoundTripsOneByOneByOne(t *testing.T) {
	g := makeGrid(1, 1, 1, nil)
	global, err := g.GlobalIndex(0, 0, 0)
	if err != nil || global != 0 {
		t.Fatalf("GlobalIndex(0,0,0) = (%d, %v), want (0, nil)", global, err)
	}
	i, j, k, err := g.IJKFromGlobal(0)
	if err != nil || i != 0 || j != 0 || k != 0 {
		t.Fatalf("IJKFromGlobal(0) = (%d,%d,%d,%v), want (0,0,0,nil)", i, j, k, err)
	}
	active, err := g.ActiveIndex(0, 0, 0)
	if err != nil || active != 0 {
		t.Fatalf("ActiveIndex(0,0,0) = (%d, %v), want (0, nil)", active, err)
	}
}

func TestGlobalIndexInverseOverWholeGrid(t *testing.T) {
	g := makeGrid(3, 4, 2, nil)
	n := g.NX * g.NY * g.NZ
	for global := 0; global < n; global++ {
		i, j, k, err := g.IJKFromGlobal(global)
		if err != nil {
			t.Fatalf("IJKFromGlobal(%d) failed: %s", global, err.Error())
		}
		back, err := g.GlobalIndex(i, j, k)
		if err != nil || back != global {
			t.Errorf("round trip failed at global=%d: got ijk=(%d,%d,%d) -> %d", global, i, j, k, back)
		}
	}
}

func TestActiveIndexWithHoles(t *testing.T) {
	g := makeGrid(6, 1, 1, []int32{1, 0, 1, 1, 0, 1})

	wantGlob := []int{0, 2, 3, 5}
	if len(g.GlobIndex) != len(wantGlob) {
		t.Fatalf("GlobIndex = %v, want %v", g.GlobIndex, wantGlob)
	}
	for idx, want := range wantGlob {
		if g.GlobIndex[idx] != want {
			t.Errorf("GlobIndex[%d] = %d, want %d", idx, g.GlobIndex[idx], want)
		}
	}

	wantAct := []int{0, -1, 1, 2, -1, 3}
	for idx, want := range wantAct {
		if g.ActIndex[idx] != want {
			t.Errorf("ActIndex[%d] = %d, want %d", idx, g.ActIndex[idx], want)
		}
	}

	if g.NActive() != 4 {
		t.Errorf("NActive() = %d, want 4", g.NActive())
	}
}

func TestActiveIndexAndIJKFromActiveAreInverses(t *testing.T) {
	g := makeGrid(6, 1, 1, []int32{1, 0, 1, 1, 0, 1})
	for a := 0; a < g.NActive(); a++ {
		i, j, k, err := g.IJKFromActive(a)
		if err != nil {
			t.Fatalf("IJKFromActive(%d) failed: %s", a, err.Error())
		}
		back, err := g.ActiveIndex(i, j, k)
		if err != nil || back != a {
			t.Errorf("round trip failed at active=%d: got ijk=(%d,%d,%d) -> %d", a, i, j, k, back)
		}
	}
}

func TestGlobalIndexOutOfRange(t *testing.T) {
	g := makeGrid(2, 2, 2, nil)
	if _, err := g.GlobalIndex(2, 0, 0); err == nil {
		t.Fatalf("expected an out-of-range error")
	}
}

func TestInterpolatePillarMidDepth(t *testing.T) {
	p := Pillar{XTop: 0, YTop: 0, ZTop: 0, XBot: 10, YBot: 0, ZBot: 100}
	x, y := interpolatePillar(p, 50)
	if x != 5 || y != 0 {
		t.Errorf("interpolatePillar(mid) = (%v,%v), want (5,0)", x, y)
	}
}

func TestInterpolatePillarDegenerate(t *testing.T) {
	p := Pillar{XTop: 0, YTop: 0, ZTop: 0, XBot: 10, YBot: 0, ZBot: 0}
	x, y := interpolatePillar(p, 0)
	if x != 0 || y != 0 {
		t.Errorf("interpolatePillar(degenerate) = (%v,%v), want (0,0)", x, y)
	}
}
