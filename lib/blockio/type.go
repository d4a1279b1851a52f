package blockio

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is one of the Eclipse array-record element type codes (spec.md §6).
type Type string

// The seven element types a record's 4-character type code can hold. C0NN
// covers custom-length strings; NN is carried in the type string itself
// (e.g. "C020" is a 20-byte string type) and read with ElemSize.
const (
	INTE Type = "INTE"
	REAL Type = "REAL"
	DOUB Type = "DOUB"
	LOGI Type = "LOGI"
	CHAR Type = "CHAR"
	MESS Type = "MESS"
)

// IsC0NN reports whether typ is a custom-length string type, "C0nn".
func IsC0NN(typ Type) bool {
	return len(typ) == 4 && strings.HasPrefix(string(typ), "C0") && isDigits(string(typ)[2:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ElemSize returns the on-disk byte size of a single element of typ.
func ElemSize(typ Type) (int, error) {
	switch typ {
	case INTE, REAL, LOGI:
		return 4, nil
	case DOUB:
		return 8, nil
	case CHAR:
		return 8, nil
	case MESS:
		return 0, nil
	}
	if IsC0NN(typ) {
		n, err := strconv.Atoi(string(typ)[2:])
		if err != nil {
			return 0, fmt.Errorf("blockio: malformed custom string type %q", typ)
		}
		return n, nil
	}
	return 0, fmt.Errorf("blockio: unrecognized element type %q", typ)
}

// MaxPerBlock returns how many elements of typ fit in one on-disk block,
// per the limits in spec.md §2/§6: 1000 INTE/REAL/LOGI, 200 DOUB, 105 CHAR.
// C0NN strings share CHAR's byte budget (105*8 = 840 bytes per block).
func MaxPerBlock(typ Type) (int, error) {
	switch typ {
	case INTE, REAL, LOGI:
		return 1000, nil
	case DOUB:
		return 200, nil
	case CHAR:
		return 105, nil
	case MESS:
		return 0, nil
	}
	if IsC0NN(typ) {
		size, err := ElemSize(typ)
		if err != nil {
			return 0, err
		}
		if size <= 0 {
			return 0, fmt.Errorf("blockio: custom string type %q has non-positive size", typ)
		}
		n := (105 * 8) / size
		if n < 1 {
			n = 1
		}
		return n, nil
	}
	return 0, fmt.Errorf("blockio: unrecognized element type %q", typ)
}
