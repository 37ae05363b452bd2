package filename

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalid       = errors.New("invalid filename")
	ErrEmpty         = fmt.Errorf("%w: name is empty", ErrInvalid)
	ErrPathSeparator = fmt.Errorf("%w: name contains a path separator", ErrInvalid)
	ErrReserved      = fmt.Errorf("%w: name is reserved", ErrInvalid)
	ErrNullByte      = fmt.Errorf("%w: name contains a null byte", ErrInvalid)
)

// Safe is a filename that has passed Sanitize and can be used as a single path component under the content root.
// The zero value is not a valid name; the only way to get a usable Safe is through Sanitize.
type Safe struct {
	name string
}

// Sanitize validates a client supplied filename. It never rewrites the name: it's either accepted as is, or rejected
// with an error wrapping ErrInvalid.
// Dot-prefixed names are rejected since the storage layer keeps its own bookkeeping under hidden names.
func Sanitize(raw string) (Safe, error) {
	switch {
	case raw == "":
		return Safe{}, ErrEmpty
	case strings.ContainsAny(raw, `/\`):
		return Safe{}, ErrPathSeparator
	case strings.ContainsRune(raw, 0):
		return Safe{}, ErrNullByte
	case strings.HasPrefix(raw, "."):
		// covers "." and ".." as well
		return Safe{}, ErrReserved
	}

	return Safe{name: raw}, nil
}

func (s Safe) String() string {
	return s.name
}

// IsZero reports whether s was not produced by Sanitize.
func (s Safe) IsZero() bool {
	return s.name == ""
}
