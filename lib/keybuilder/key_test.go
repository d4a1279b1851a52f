package keybuilder

import "testing"

func TestMakeKeyStringWell(t *testing.T) {
	got, err := MakeKeyString("WOPR", Context{WGName: "OP_1"})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "WOPR:OP_1" {
		t.Errorf("MakeKeyString(WOPR) = %q, want WOPR:OP_1", got)
	}
}

func TestMakeKeyStringWellCompletion(t *testing.T) {
	got, err := MakeKeyString("WOPRL", Context{WGName: "OP_1", Num: 8})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "WOPRL:OP_1:8" {
		t.Errorf("MakeKeyString(WOPRL) = %q, want WOPRL:OP_1:8", got)
	}
}

func TestMakeKeyStringWellOmitsSentinelWGName(t *testing.T) {
	cases := []Context{
		{WGName: NoWGName},
		{WGName: ""},
	}
	for _, ctx := range cases {
		got, err := MakeKeyString("WOPR", ctx)
		if err != nil {
			t.Fatalf("MakeKeyString failed: %s", err.Error())
		}
		if got != "" {
			t.Errorf("MakeKeyString(WOPR, %+v) = %q, want empty omit", ctx, got)
		}
	}
}

func TestMakeKeyStringGroupOmitsSentinelWGName(t *testing.T) {
	got, err := MakeKeyString("GOPR", Context{WGName: NoWGName})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "" {
		t.Errorf("MakeKeyString(GOPR) = %q, want empty omit", got)
	}
}

func TestMakeKeyStringSegmentOmitsSentinelWGNameOrNonPositiveNum(t *testing.T) {
	if got, err := MakeKeyString("SEGKEY", Context{WGName: NoWGName, Num: 5}); err != nil || got != "" {
		t.Errorf("MakeKeyString(SEGKEY, sentinel WGName) = (%q, %v), want empty omit", got, err)
	}
	if got, err := MakeKeyString("SEGKEY", Context{WGName: "OP_1", Num: 0}); err != nil || got != "" {
		t.Errorf("MakeKeyString(SEGKEY, Num<=0) = (%q, %v), want empty omit", got, err)
	}
}

func TestMakeKeyStringSegment(t *testing.T) {
	got, err := MakeKeyString("SEGKEY", Context{WGName: "OP_1", Num: 5})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "SEGKEY:OP_1:5" {
		t.Errorf("MakeKeyString(SEGKEY) = %q, want SEGKEY:OP_1:5", got)
	}
}

func TestMakeKeyStringBlock(t *testing.T) {
	// spec.md §8's worked example: num=12675 against a 20x10 grid unpacks
	// to (i, j, k) = (15, 3, 63).
	got, err := MakeKeyString("BPR", Context{Num: 12675, NX: 20, NY: 10})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "BPR:15,3,63" {
		t.Errorf("MakeKeyString(BPR) = %q, want BPR:15,3,63", got)
	}
}

func TestMakeKeyStringBlockOmitsNonPositiveNum(t *testing.T) {
	got, err := MakeKeyString("BPR", Context{Num: 0, NX: 20, NY: 10})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "" {
		t.Errorf("MakeKeyString(BPR, Num<=0) = %q, want empty omit", got)
	}
}

func TestMakeKeyStringCompletion(t *testing.T) {
	got, err := MakeKeyString("COPR", Context{WGName: "OP_1", Num: 12675, NX: 20, NY: 10})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "COPR:OP_1:15,3,63" {
		t.Errorf("MakeKeyString(COPR) = %q, want COPR:OP_1:15,3,63", got)
	}
}

func TestMakeKeyStringCompletionOmitsSentinelWGNameOrNonPositiveNum(t *testing.T) {
	if got, err := MakeKeyString("COPR", Context{WGName: NoWGName, Num: 12675, NX: 20, NY: 10}); err != nil || got != "" {
		t.Errorf("MakeKeyString(COPR, sentinel WGName) = (%q, %v), want empty omit", got, err)
	}
	if got, err := MakeKeyString("COPR", Context{WGName: "OP_1", Num: 0, NX: 20, NY: 10}); err != nil || got != "" {
		t.Errorf("MakeKeyString(COPR, Num<=0) = (%q, %v), want empty omit", got, err)
	}
}

func TestMakeKeyStringGroup(t *testing.T) {
	got, err := MakeKeyString("GOPR", Context{WGName: "FIELD"})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "GOPR:FIELD" {
		t.Errorf("MakeKeyString(GOPR) = %q, want GOPR:FIELD", got)
	}
}

func TestMakeKeyStringRegionFluxRoundTrips(t *testing.T) {
	num := int32(PackRegionFlux(2, 3))
	got, err := MakeKeyString("RGFR", Context{Num: num})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	want := "RGFR:2-3"
	if got != want {
		t.Errorf("MakeKeyString(RGFR) = %q, want %q", got, want)
	}

	keyword, ctx, err := SplitKeyString(got)
	if err != nil {
		t.Fatalf("SplitKeyString failed: %s", err.Error())
	}
	if keyword != "RGFR" || ctx.Num != num {
		t.Errorf("SplitKeyString(%q) = (%q, %+v), want (RGFR, Num=%d)", got, keyword, ctx, num)
	}
}

func TestMakeKeyStringPlainRegion(t *testing.T) {
	got, err := MakeKeyString("RPR", Context{Num: 4})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "RPR:4" {
		t.Errorf("MakeKeyString(RPR) = %q, want RPR:4", got)
	}
}

func TestMakeKeyStringRORFRException(t *testing.T) {
	// RORFR is a standard region summary keyword despite its FR suffix:
	// unlike RGFR/ROFR-style keywords it never decomposes Num into a
	// region pair.
	got, err := MakeKeyString("RORFR", Context{Num: 99})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "RORFR:99" {
		t.Errorf("MakeKeyString(RORFR) = %q, want RORFR:99", got)
	}
}

func TestMakeKeyStringRegionOmitsNonPositiveNum(t *testing.T) {
	got, err := MakeKeyString("RPR", Context{Num: 0})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "" {
		t.Errorf("MakeKeyString(RPR, Num<=0) = %q, want empty omit", got)
	}
}

func TestMakeKeyStringAquifer(t *testing.T) {
	got, err := MakeKeyString("AAQR", Context{Num: 2})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "AAQR:2" {
		t.Errorf("MakeKeyString(AAQR) = %q, want AAQR:2", got)
	}
}

func TestMakeKeyStringAquiferOmitsNonPositiveNum(t *testing.T) {
	got, err := MakeKeyString("AAQR", Context{Num: 0})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "" {
		t.Errorf("MakeKeyString(AAQR, Num<=0) = %q, want empty omit", got)
	}
}

func TestMakeKeyStringMiscellaneousException(t *testing.T) {
	got, err := MakeKeyString("TIME", Context{})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	if got != "TIME" {
		t.Errorf("MakeKeyString(TIME) = %q, want TIME unchanged", got)
	}
}

func TestMakeKeyStringLGRRequiresName(t *testing.T) {
	_, err := MakeKeyString("LBPR", Context{})
	if err == nil {
		t.Fatalf("expected an error for an LGR keyword with no LGR name")
	}
}

func TestIsWellCompletionMatchesAndRejects(t *testing.T) {
	cases := []struct {
		keyword string
		want    bool
	}{
		{"WOPRL", true},
		{"WOPRL__8", true},
		{"WOPRL123", true},
		{"WKITL", false},
		{"WOPR", false},
	}
	for _, c := range cases {
		if got := IsWellCompletion(c.keyword); got != c.want {
			t.Errorf("IsWellCompletion(%q) = %v, want %v", c.keyword, got, c.want)
		}
	}
}

func TestIsConnectionCompletion(t *testing.T) {
	if !IsConnectionCompletion("COPRL") {
		t.Errorf("expected COPRL to be a connection-completion keyword")
	}
	if IsConnectionCompletion("COPR") {
		t.Errorf("did not expect COPR to be a connection-completion keyword")
	}
}

func TestSplitKeyStringRoundTripsBlockIJK(t *testing.T) {
	key, err := MakeKeyString("BPR", Context{Num: 12675, NX: 20, NY: 10})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	keyword, ctx, err := SplitKeyString(key)
	if err != nil {
		t.Fatalf("SplitKeyString failed: %s", err.Error())
	}
	if keyword != "BPR" || ctx.I != 15 || ctx.J != 3 || ctx.K != 63 {
		t.Errorf("SplitKeyString(%q) = (%q, %+v), want (BPR, i=15,j=3,k=63)", key, keyword, ctx)
	}
	if got := PackIJK(ctx.I, ctx.J, ctx.K, 20, 10); got != 12675 {
		t.Errorf("PackIJK(%d,%d,%d,20,10) = %d, want 12675", ctx.I, ctx.J, ctx.K, got)
	}
}

func TestSplitKeyStringRoundTripsCompletionIJK(t *testing.T) {
	key, err := MakeKeyString("COPR", Context{WGName: "OP_1", Num: 12675, NX: 20, NY: 10})
	if err != nil {
		t.Fatalf("MakeKeyString failed: %s", err.Error())
	}
	keyword, ctx, err := SplitKeyString(key)
	if err != nil {
		t.Fatalf("SplitKeyString failed: %s", err.Error())
	}
	if keyword != "COPR" || ctx.WGName != "OP_1" || ctx.I != 15 || ctx.J != 3 || ctx.K != 63 {
		t.Errorf("SplitKeyString(%q) = (%q, %+v), want (COPR, OP_1, i=15,j=3,k=63)", key, keyword, ctx)
	}
}

func TestSplitKeyStringMalformedSuffix(t *testing.T) {
	_, _, err := SplitKeyString("BPR:notanumber")
	if err == nil {
		t.Fatalf("expected a Malformed error for a non-numeric block suffix")
	}
}
