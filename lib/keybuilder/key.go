package keybuilder

import (
	"fmt"
	"strings"

	"github.com/ecl-tools/eclio/lib/eclerr"
)

// regionFluxBase packs a region-to-region flux's second region into num the
// same way ESmry.cpp does: r1 + 32768*(r2+10). The formula, not the worked
// example in spec.md §4.4, is the source of truth here (the example's
// arithmetic doesn't reduce to the stated formula).
const regionFluxBase = 32768
const regionFluxOffset = 10

// Context carries everything besides the raw keyword that a key might need:
// well/group name, the simulator's packed "num" field, the grid dimensions
// needed to unpack Num into ijk for block/completion keywords, and LGR name
// when the keyword originates inside a local grid refinement.
type Context struct {
	WGName string
	Num    int32
	NX, NY int
	LGR    string

	// I, J, K are populated by SplitKeyString for block/completion keys,
	// whose key strings carry the unpacked ijk directly rather than the packed
	// Num a caller would need NX/NY to recover.
	I, J, K int
}

// MakeKeyString builds the canonical key string for keyword in ctx, per the
// category dispatch table in spec.md §4.4 (grounded on
// opm/io/eclipse/ESmry.cpp::makeKeyString). Every "omit" condition in that
// table returns ("", nil): an omitted key is an expected, non-error outcome,
// matching the original's plain early `return "";`.
func MakeKeyString(keyword string, ctx Context) (string, error) {
	if MiscellaneousException(keyword) {
		return keyword, nil
	}
	switch CategoryOf(keyword) {
	case CategoryWell:
		if isOmittedWGName(ctx) {
			return "", nil
		}
		if IsWellCompletion(keyword) {
			return fmt.Sprintf("%s:%s:%d", keyword, ctx.WGName, ctx.Num), nil
		}
		return fmt.Sprintf("%s:%s", keyword, ctx.WGName), nil

	case CategoryGroup:
		if isOmittedWGName(ctx) {
			return "", nil
		}
		return fmt.Sprintf("%s:%s", keyword, ctx.WGName), nil

	case CategoryBlock:
		if ctx.Num <= 0 {
			return "", nil
		}
		i, j, k := ijkFromGlobal(ctx.Num, ctx.NX, ctx.NY)
		return fmt.Sprintf("%s:%d,%d,%d", keyword, i, j, k), nil

	case CategoryCompletion:
		if isOmittedWGName(ctx) || ctx.Num <= 0 {
			return "", nil
		}
		i, j, k := ijkFromGlobal(ctx.Num, ctx.NX, ctx.NY)
		return fmt.Sprintf("%s:%s:%d,%d,%d", keyword, ctx.WGName, i, j, k), nil

	case CategoryRegion:
		if ctx.Num <= 0 {
			return "", nil
		}
		if keyword != "RORFR" {
			if r1, r2, ok := unpackRegionFlux(ctx.Num); ok {
				return fmt.Sprintf("%s:%d-%d", keyword, r1, r2), nil
			}
		}
		return fmt.Sprintf("%s:%d", keyword, ctx.Num), nil

	case CategorySegment:
		if isOmittedWGName(ctx) || ctx.Num <= 0 {
			return "", nil
		}
		return fmt.Sprintf("%s:%s:%d", keyword, ctx.WGName, ctx.Num), nil

	case CategoryAquifer:
		if ctx.Num <= 0 {
			return "", nil
		}
		return fmt.Sprintf("%s:%d", keyword, ctx.Num), nil

	case CategoryLGR:
		if ctx.LGR == "" {
			return "", eclerr.New(eclerr.InvalidArgument, "keyword %q requires an LGR name", keyword)
		}
		return fmt.Sprintf("%s:%s", keyword, ctx.LGR), nil

	default:
		return keyword, nil
	}
}

// isOmittedWGName reports whether ctx's well/group name is the sentinel
// ESmry.cpp::makeKeyString checks for ("" or NoWGName) before building a
// well/group/segment key. The caller must return ("", nil) on true rather
// than formatting a name-less key.
func isOmittedWGName(ctx Context) bool {
	return ctx.WGName == "" || ctx.WGName == NoWGName
}

// ijkFromGlobal unpacks a simulator-packed global cell index into the
// (i, j, k) shown in a key, per spec.md §3's ijk_from_global and the worked
// example in §8 (num=12675, nx=20, ny=10 → i=15, j=3, k=63). Applied
// directly to num, with no off-by-one adjustment before or after (num=1
// unpacks to (1, 0, 0)): that literal example is the
// source of truth here, not a byte-for-byte port of
// ESmry.cpp::ijk_from_global_index (see DESIGN.md).
func ijkFromGlobal(num int32, nx, ny int) (i, j, k int) {
	n := int(num)
	area := nx * ny
	k = n / area
	rest := n % area
	j = rest / nx
	i = rest % nx
	return i, j, k
}

// PackIJK is the inverse of ijkFromGlobal: the Num value a key built from
// (i, j, k) against a grid nx x ny unpacks back to.
func PackIJK(i, j, k, nx, ny int) int32 {
	return int32(k*nx*ny + j*nx + i)
}

// unpackRegionFlux reverses the r1 + 32768*(r2+10) packing used for
// region-to-region flux keywords (e.g. RGFR, ROFR-, RWFR). ok is false when
// num doesn't decode to a region pair that round-trips, which is the signal
// that this Num is an ordinary single-region index instead.
func unpackRegionFlux(num int32) (r1, r2 int, ok bool) {
	if num <= 0 {
		return 0, 0, false
	}
	n := int(num)
	packedR2 := n / regionFluxBase
	r1 = n % regionFluxBase
	r2 = packedR2 - regionFluxOffset
	if r2 < 1 || r1 < 1 {
		return 0, 0, false
	}
	if PackRegionFlux(r1, r2) != n {
		return 0, 0, false
	}
	return r1, r2, true
}

// PackRegionFlux is the forward direction of unpackRegionFlux: the Num value
// the simulator writes for a region-to-region flux between r1 and r2.
func PackRegionFlux(r1, r2 int) int {
	return r1 + regionFluxBase*(r2+regionFluxOffset)
}

// SplitKeyString is the inverse of MakeKeyString: given a canonical key
// string, recover the raw keyword and its Context. Returns eclerr.Malformed
// if key doesn't look like any category's output format.
func SplitKeyString(key string) (keyword string, ctx Context, err error) {
	parts := strings.Split(key, ":")
	keyword = parts[0]

	switch CategoryOf(keyword) {
	case CategoryWell:
		if len(parts) == 3 {
			ctx.WGName = parts[1]
			if _, scanErr := fmt.Sscanf(parts[2], "%d", &ctx.Num); scanErr != nil {
				return "", Context{}, eclerr.New(eclerr.Malformed, "key %q has a non-numeric suffix", key)
			}
			return keyword, ctx, nil
		}
		if len(parts) == 2 {
			ctx.WGName = parts[1]
			return keyword, ctx, nil
		}
		return "", Context{}, eclerr.New(eclerr.Malformed, "key %q doesn't match a well key", key)

	case CategoryCompletion:
		if len(parts) != 3 {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q doesn't match a completion key", key)
		}
		ctx.WGName = parts[1]
		if scanErr := scanIJK(parts[2], &ctx.I, &ctx.J, &ctx.K); scanErr != nil {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q has a malformed ijk suffix", key)
		}
		return keyword, ctx, nil

	case CategoryGroup, CategoryLGR:
		if len(parts) != 2 {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q doesn't match a group or LGR key", key)
		}
		if CategoryOf(keyword) == CategoryLGR {
			ctx.LGR = parts[1]
		} else {
			ctx.WGName = parts[1]
		}
		return keyword, ctx, nil

	case CategoryBlock:
		if len(parts) != 2 {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q doesn't match a block key", key)
		}
		if scanErr := scanIJK(parts[1], &ctx.I, &ctx.J, &ctx.K); scanErr != nil {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q has a malformed ijk suffix", key)
		}
		return keyword, ctx, nil

	case CategoryAquifer:
		if len(parts) != 2 {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q doesn't match an aquifer key", key)
		}
		if _, scanErr := fmt.Sscanf(parts[1], "%d", &ctx.Num); scanErr != nil {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q has a non-numeric suffix", key)
		}
		return keyword, ctx, nil

	case CategoryRegion:
		if len(parts) != 2 {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q doesn't match a region key", key)
		}
		if keyword != "RORFR" {
			if r1, r2, scanErr := scanRegionPair(parts[1]); scanErr == nil {
				ctx.Num = int32(PackRegionFlux(r1, r2))
				return keyword, ctx, nil
			}
		}
		if _, scanErr := fmt.Sscanf(parts[1], "%d", &ctx.Num); scanErr != nil {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q has a non-numeric suffix", key)
		}
		return keyword, ctx, nil

	case CategorySegment:
		if len(parts) != 3 {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q doesn't match a segment key", key)
		}
		ctx.WGName = parts[1]
		if _, scanErr := fmt.Sscanf(parts[2], "%d", &ctx.Num); scanErr != nil {
			return "", Context{}, eclerr.New(eclerr.Malformed, "key %q has a non-numeric suffix", key)
		}
		return keyword, ctx, nil

	default:
		return keyword, ctx, nil
	}
}

func scanRegionPair(s string) (r1, r2 int, err error) {
	_, err = fmt.Sscanf(s, "%d-%d", &r1, &r2)
	return
}

func scanIJK(s string, i, j, k *int) error {
	n, err := fmt.Sscanf(s, "%d,%d,%d", i, j, k)
	if err != nil {
		return err
	}
	if n != 3 {
		return fmt.Errorf("expected 3 ijk components, got %d", n)
	}
	return nil
}
