package blockio

import "testing"

func TestBlocksSplitsEvenly(t *testing.T) {
	blocks := Blocks(2500, 1000)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	wantCounts := []int{1000, 1000, 500}
	wantStarts := []int{0, 1000, 2000}
	for i, b := range blocks {
		if b.Count != wantCounts[i] || b.Start != wantStarts[i] {
			t.Errorf("block %d = %+v, want start=%d count=%d", i, b, wantStarts[i], wantCounts[i])
		}
	}
}

func TestBlocksEmpty(t *testing.T) {
	if blocks := Blocks(0, 1000); blocks != nil {
		t.Errorf("expected no blocks for n=0, got %v", blocks)
	}
}

func TestSizeOnDiskBinaryINTE(t *testing.T) {
	// 1500 INTE elements: one full block of 1000 and one of 500, each
	// wrapped in its own 4-byte header/trailer, plus the fixed 24-byte
	// record header.
	size, err := SizeOnDiskBinary(1500, INTE)
	if err != nil {
		t.Fatalf("SizeOnDiskBinary failed: %s", err.Error())
	}
	want := HeaderSizeOnDisk + (4 + 1000*4 + 4) + (4 + 500*4 + 4)
	if size != want {
		t.Errorf("SizeOnDiskBinary(1500, INTE) = %d, want %d", size, want)
	}
}

func TestSizeOnDiskBinaryDOUB(t *testing.T) {
	size, err := SizeOnDiskBinary(200, DOUB)
	if err != nil {
		t.Fatalf("SizeOnDiskBinary failed: %s", err.Error())
	}
	want := HeaderSizeOnDisk + (4 + 200*8 + 4)
	if size != want {
		t.Errorf("SizeOnDiskBinary(200, DOUB) = %d, want %d", size, want)
	}
}

func TestSizeOnDiskBinaryZeroElements(t *testing.T) {
	size, err := SizeOnDiskBinary(0, REAL)
	if err != nil {
		t.Fatalf("SizeOnDiskBinary failed: %s", err.Error())
	}
	if size != HeaderSizeOnDisk {
		t.Errorf("SizeOnDiskBinary(0, REAL) = %d, want %d", size, HeaderSizeOnDisk)
	}
}

func TestElemSizeC0NN(t *testing.T) {
	size, err := ElemSize(Type("C020"))
	if err != nil {
		t.Fatalf("ElemSize failed: %s", err.Error())
	}
	if size != 20 {
		t.Errorf("ElemSize(C020) = %d, want 20", size)
	}
}

func TestMaxPerBlockC0NN(t *testing.T) {
	n, err := MaxPerBlock(Type("C010"))
	if err != nil {
		t.Fatalf("MaxPerBlock failed: %s", err.Error())
	}
	if n != 84 { // 840 / 10
		t.Errorf("MaxPerBlock(C010) = %d, want 84", n)
	}
}

func TestSizeOnDiskFormattedReal(t *testing.T) {
	size, err := SizeOnDiskFormatted(5, REAL)
	if err != nil {
		t.Fatalf("SizeOnDiskFormatted failed: %s", err.Error())
	}
	if size <= headerLineSize(5, REAL) {
		t.Errorf("expected formatted size to include row data beyond the header line")
	}
}
