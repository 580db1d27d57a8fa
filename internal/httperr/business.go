package httperr

import "errors"

// BusinessError is a domain rule failure identified by a stable code
// (slot_unavailable, slot_in_use, llm_not_configured, ...). Use cases
// return these; handlers translate each code to an HTTP status so the
// mapping lives in exactly one place per endpoint.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// IsBusiness reports whether err carries the given business code,
// unwrapping as needed.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
