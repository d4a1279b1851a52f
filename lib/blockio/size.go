package blockio

// HeaderSizeOnDisk is the fixed footprint of a binary record's header block:
// a leading and trailing 4-byte length int bracketing a 16-byte payload of
// an 8-char name, a 4-byte count and a 4-byte type code (spec.md §6).
const HeaderSizeOnDisk int64 = 4 + 16 + 4

// Block describes one on-disk data block: Start is the 0-based index of its
// first element, Count is how many elements it holds.
type Block struct {
	Start, Count int
}

// Blocks splits n elements into blocks of at most maxPerBlock elements each,
// in file order. Used both to size a record on disk and to re-synchronize on
// block boundaries during partial reads (EGrid's lazy ZCORN streaming).
func Blocks(n, maxPerBlock int) []Block {
	if n <= 0 || maxPerBlock <= 0 {
		return nil
	}
	blocks := make([]Block, 0, (n+maxPerBlock-1)/maxPerBlock)
	for start := 0; start < n; start += maxPerBlock {
		count := maxPerBlock
		if start+count > n {
			count = n - start
		}
		blocks = append(blocks, Block{Start: start, Count: count})
	}
	return blocks
}

// SizeOnDiskBinary returns the total byte footprint of an unformatted array
// record of n elements of the given type: the fixed header block plus one
// 4-byte header/trailer pair around every data block's payload.
func SizeOnDiskBinary(n int, typ Type) (int64, error) {
	elemSize, err := ElemSize(typ)
	if err != nil {
		return 0, err
	}
	maxPerBlock, err := MaxPerBlock(typ)
	if err != nil {
		return 0, err
	}
	size := HeaderSizeOnDisk
	for _, b := range Blocks(n, maxPerBlock) {
		size += 4 + int64(b.Count*elemSize) + 4
	}
	return size, nil
}

// Formatted column layout, per spec.md §6's worked examples (REAL: 4 per
// line x 17 chars, INTE: 6 per line x 12 chars) extended in the same spirit
// to the remaining types.
const (
	ColumnsReal = 4
	WidthReal   = 17
	ColumnsInt  = 6
	WidthInt    = 12
	ColumnsDoub = 3
	WidthDoub   = 23
	ColumnsLogi = 6
	WidthLogi   = 4
	ColumnsChar = 7
	WidthChar   = 10
)

// ColumnsAndWidth returns the formatted layout (elements per row, and
// characters per element) for typ, ok=false if typ is unrecognized.
func ColumnsAndWidth(typ Type) (columns, width int, ok bool) {
	return columnsAndWidth(typ)
}

func columnsAndWidth(typ Type) (columns, width int, ok bool) {
	switch typ {
	case INTE:
		return ColumnsInt, WidthInt, true
	case REAL:
		return ColumnsReal, WidthReal, true
	case DOUB:
		return ColumnsDoub, WidthDoub, true
	case LOGI:
		return ColumnsLogi, WidthLogi, true
	case CHAR:
		return ColumnsChar, WidthChar, true
	}
	if IsC0NN(typ) {
		size, err := ElemSize(typ)
		if err == nil {
			return ColumnsChar, size + 2, true
		}
	}
	return 0, 0, false
}

// SizeOnDiskFormatted returns the byte footprint of a formatted (ASCII)
// array record of n elements of the given type: a fixed-width header line
// plus one row every `columns` elements, each row terminated by a newline.
func SizeOnDiskFormatted(n int, typ Type) (int64, error) {
	if typ == MESS {
		return headerLineSize(n, typ), nil
	}
	columns, width, ok := columnsAndWidth(typ)
	if !ok {
		return 0, errUnrecognized(typ)
	}
	size := headerLineSize(n, typ)
	if n > 0 {
		rows := (n + columns - 1) / columns
		size += int64(rows) * (int64(width*columns) + 1) // +1 newline per row
	}
	return size, nil
}

// headerLineSize approximates the formatted header line: 2-char pad, 8-char
// name, space, decimal count, space, 4-char quoted type code, newline.
func headerLineSize(n int, typ Type) int64 {
	_ = typ
	countDigits := 1
	for v := n; v >= 10; v /= 10 {
		countDigits++
	}
	return int64(2 + 8 + 1 + countDigits + 1 + 6 + 1)
}

func errUnrecognized(typ Type) error {
	_, err := ElemSize(typ)
	return err
}
