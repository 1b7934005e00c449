package terms

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by every *ArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateTerm reports that a name is already taken in storage.
	ErrDuplicateTerm = errors.New("term already exists")

	// ErrTermNotFound reports that no record has the requested name.
	ErrTermNotFound = errors.New("term does not exist")

	// ErrStorageInvalid is matched by every *StorageError.
	ErrStorageInvalid = errors.New("terms storage is invalid")
)

// ArgumentError reports a missing or malformed caller input.
type ArgumentError struct {
	Arg    string // Name of the offending argument, e.g. "term" or "newTerm"
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Reason)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// TermError reports a business rule violation for a named term.
// Err is ErrDuplicateTerm or ErrTermNotFound.
type TermError struct {
	Op   string
	Name string
	Err  error
}

func (e *TermError) Error() string {
	switch e.Err {
	case ErrDuplicateTerm:
		return fmt.Sprintf("unable to %s term %q because it already exists", e.Op, e.Name)
	case ErrTermNotFound:
		return fmt.Sprintf("unable to %s term %q because it does not exist", e.Op, e.Name)
	}
	return fmt.Sprintf("unable to %s term %q: %v", e.Op, e.Name, e.Err)
}

func (e *TermError) Unwrap() error { return e.Err }

// StorageError reports that the storage file could not be read, parsed or written.
// Err carries the original cause.
type StorageError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("invalid terms storage %s (%s): %v", e.Path, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageInvalid
}

// Error kinds returned by Kind.
const (
	KindInvalidArgument = "invalid_argument"
	KindDuplicateTerm   = "duplicate_term"
	KindTermNotFound    = "term_not_found"
	KindStorageInvalid  = "storage_invalid"
	KindUnknown         = "unknown"
)

// Kind classifies err into one of the Kind* constants.
// Storage faults win over anything they wrap.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStorageInvalid):
		return KindStorageInvalid
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrDuplicateTerm):
		return KindDuplicateTerm
	case errors.Is(err, ErrTermNotFound):
		return KindTermNotFound
	default:
		return KindUnknown
	}
}

// asStorageError wraps err into a *StorageError unless it already is one.
func asStorageError(op, path string, err error) error {
	var se *StorageError
	if errors.As(err, &se) {
		return se
	}
	return &StorageError{Op: op, Path: path, Err: err}
}
