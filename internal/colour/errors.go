package colour

import "errors"

// Error kinds returned by the palette pipeline. Every failure wraps exactly
// one of these so callers can classify it with errors.Is.
var (
	// ErrInvalidInput reports malformed or undecodable image data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter reports a colour count or coordinate outside its
	// valid range, or an out-of-range channel value.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrResourceExceeded reports an image that is too large or an
	// extraction that ran past its deadline.
	ErrResourceExceeded = errors.New("resource exceeded")
)

// ErrorKind returns the taxonomy name for err, or "Internal" when err does
// not wrap one of the package error kinds.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrInvalidParameter):
		return "InvalidParameter"
	case errors.Is(err, ErrResourceExceeded):
		return "ResourceExceeded"
	default:
		return "Internal"
	}
}
