package vo

import "errors"

// Failure kinds surfaced by the tool facade. Callers branch with errors.Is;
// everything else a component returns is wrapped around one of these.
var (
	ErrInvalidRange     = errors.New("invalid year range")
	ErrUpstream         = errors.New("upstream site error")
	ErrNotFound         = errors.New("thesis detail page not found")
	ErrPermissionDenied = errors.New("thesis pdf not publicly accessible")
	ErrPageOutOfRange   = errors.New("pdf page out of range")
	ErrConversion       = errors.New("pdf to markdown conversion failed")
)

// ErrorKind returns a stable wire-level code for err, or "" when err does
// not match a known kind.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrPageOutOfRange):
		return "page_out_of_range"
	case errors.Is(err, ErrConversion):
		return "conversion_error"
	}
	return ""
}
