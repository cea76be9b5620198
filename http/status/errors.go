package status

import "errors"

// HTTPError is an error carrying the status code it must be answered with. Values are
// comparable, so sentinel errors built from it work with errors.Is.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf walks the error chain looking for something that knows its status code. Errors
// that don't are reported as InternalServerError.
func CodeOf(err error) Code {
	var coded interface{ StatusCode() Code }
	if errors.As(err, &coded) {
		return coded.StatusCode()
	}

	return InternalServerError
}

func (h HTTPError) StatusCode() Code {
	return h.Code
}

var (
	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrURLDecoding          = NewError(BadRequest, "invalid urlencoded sequence")
	ErrBadEncoding          = NewError(BadRequest, "bad request encoding")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrUnsupportedMediaType = NewError(UnsupportedMediaType, "unsupported media type")
	ErrUnsupportedEncoding  = NewError(UnsupportedMediaType, "encoding is not supported")
)
