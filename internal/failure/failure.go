package failure

import (
	"errors"
	"fmt"
)

// Kind classifies why a stage produced no result
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingFile
	KindMalformedFile
	KindOutOfDomain
	KindUnsorted
)

func (k Kind) String() string {
	switch k {
	case KindMissingFile:
		return "missing_file"
	case KindMalformedFile:
		return "malformed_file"
	case KindOutOfDomain:
		return "out_of_domain"
	case KindUnsorted:
		return "unsorted"
	default:
		return "unknown"
	}
}

// Error is a classified failure raised by a pipeline stage
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind so callers can compare against the sentinels below
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels usable with errors.Is
var (
	ErrMissingFile   = &Error{Kind: KindMissingFile}
	ErrMalformedFile = &Error{Kind: KindMalformedFile}
	ErrOutOfDomain   = &Error{Kind: KindOutOfDomain}
	ErrUnsorted      = &Error{Kind: KindUnsorted}
)

// New wraps err with an operation name and kind
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf is New with a formatted cause
func Newf(kind Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
