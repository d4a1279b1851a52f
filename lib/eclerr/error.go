/*Package eclerr contains the typed errors shared by lib/blockio, lib/eclfile,
lib/keybuilder, lib/egrid and lib/esmry.

The style follows the teacher's habit of writing full-sentence,
context-carrying error messages (see phil-mansfield/guppy's
lib/snapio/gadget2.go), but an eclerr.Error is returned to the caller instead
of killing the process: this package is a library, not guppy's CLI.
*/
package eclerr

import "fmt"

// Kind classifies why an operation failed, matching spec.md §7.
type Kind int

const (
	// NotFound means a named key or record is absent.
	NotFound Kind = iota
	// WrongType means a record exists but its element type differs from
	// what the caller asked for.
	WrongType
	// Malformed means block framing was inconsistent, EOF hit mid-record,
	// or an unexpected record name turned up in a time-step stream.
	Malformed
	// Mismatch means two files disagree about something that must agree
	// (grid dimensions, active-cell counts, TRANNNC length versus NNC1).
	Mismatch
	// InvalidArgument means an index or argument was out of range.
	InvalidArgument
	// IOError means the OS-level open/read/write failed.
	IOError
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case WrongType:
		return "WrongType"
	case Malformed:
		return "Malformed"
	case Mismatch:
		return "Mismatch"
	case InvalidArgument:
		return "InvalidArgument"
	case IOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every package in this module. File,
// Record and Offset are populated whenever they're meaningful; a zero Offset
// of -1 means "not applicable" rather than "byte zero".
type Error struct {
	Kind    Kind
	File    string
	Record  string
	Offset  int64
	Message string
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	s := e.Message
	if e.Record != "" {
		if e.File != "" {
			s = fmt.Sprintf("%s: record %q in %s", s, e.Record, e.File)
		} else {
			s = fmt.Sprintf("%s: record %q", s, e.Record)
		}
	} else if e.File != "" {
		s = fmt.Sprintf("%s: %s", s, e.File)
	}
	if e.Offset >= 0 {
		s = fmt.Sprintf("%s (byte offset %d)", s, e.Offset)
	}
	if e.Err != nil {
		s = fmt.Sprintf("%s: %s", s, e.Err.Error())
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, eclerr.ErrNotFound) work by comparing Kind against a
// sentinel *Error carrying only a Kind (see the Err* sentinels below).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	if other.Message == "" && other.File == "" && other.Record == "" && other.Err == nil {
		return e.Kind == other.Kind
	}
	return false
}

func kindSentinel(k Kind) error { return &Error{Kind: k, Offset: -1} }

// Sentinels usable with errors.Is, e.g. errors.Is(err, eclerr.ErrNotFound).
var (
	ErrNotFound        = kindSentinel(NotFound)
	ErrWrongType       = kindSentinel(WrongType)
	ErrMalformed       = kindSentinel(Malformed)
	ErrMismatch        = kindSentinel(Mismatch)
	ErrInvalidArgument = kindSentinel(InvalidArgument)
	ErrIOError         = kindSentinel(IOError)
)

// New builds an *Error with no file/record/offset context.
func New(k Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, a...), Offset: -1}
}

// NewAt builds an *Error naming the file, record and byte offset at which it
// occurred. Pass offset -1 if there isn't one.
func NewAt(k Kind, file, record string, offset int64, format string, a ...interface{}) *Error {
	return &Error{
		Kind: k, File: file, Record: record, Offset: offset,
		Message: fmt.Sprintf(format, a...),
	}
}

// Wrap attaches a lower-level cause (e.g. an *os.PathError) to a new *Error.
func Wrap(k Kind, file string, err error, format string, a ...interface{}) *Error {
	return &Error{Kind: k, File: file, Offset: -1, Message: fmt.Sprintf(format, a...), Err: err}
}
