// Package eclfile implements the block-structured container reader
// ("EclFile" in spec.md §4.2): a directory of named, typed array records
// built by streaming a file once, with lazy, cached, random-access loading
// of each record's payload.
package eclfile

import "github.com/ecl-tools/eclio/lib/blockio"

// Record is one entry in an EclFile's directory: a name, an element type, a
// count, and the absolute file offset of the first data block's header int
// (for a formatted file, of the first data row). Immutable after directory construction (spec.md §3).
type Record struct {
	Name   string
	Type   blockio.Type
	Count  int
	Offset int64
}
