package multipart

import (
	"errors"

	"github.com/indigo-web/formdata/http/status"
)

// FormatError is a violation of the multipart syntax. The parser never recovers from it:
// once reported, the same error is returned for all the following input.
type FormatError struct {
	status.HTTPError
}

// PolicyError is raised on a syntactically valid form which violates the configured
// limits or expectations about its parts.
type PolicyError struct {
	status.HTTPError
}

func newFormatError(code status.Code, message string) error {
	return FormatError{status.HTTPError{Code: code, Message: message}}
}

func newPolicyError(code status.Code, message string) error {
	return PolicyError{status.HTTPError{Code: code, Message: message}}
}

var (
	ErrMaxHeaderLength     = newFormatError(status.RequestHeaderFieldsTooLarge, "multipart: maximum header length exceeded")
	ErrCharset             = newFormatError(status.BadRequest, "multipart: header block can't be decoded")
	ErrInvalidHeaderLine   = newFormatError(status.BadRequest, "multipart: invalid header line")
	ErrFailedToParseHeader = newFormatError(status.BadRequest, "multipart: body ended inside a header block")
)

var (
	ErrUnexpectedFile    = newPolicyError(status.BadRequest, "multipart: unexpected file field")
	ErrTooManyFiles      = newPolicyError(status.RequestEntityTooLarge, "multipart: too many files")
	ErrTooManyFields     = newPolicyError(status.RequestEntityTooLarge, "multipart: too many fields")
	ErrFileTooLarge      = newPolicyError(status.RequestEntityTooLarge, "multipart: file too large")
	ErrFieldNameTooLong  = newPolicyError(status.RequestEntityTooLarge, "multipart: field name too long")
	ErrFieldValueTooLong = newPolicyError(status.RequestEntityTooLarge, "multipart: field value too long")
	ErrInvalidPartHeader = newPolicyError(status.BadRequest, "multipart: part has no name")
)

var (
	ErrNoBoundary = status.NewError(status.BadRequest, "multipart: empty boundary")
	ErrFinished   = errors.New("multipart: form is already finished")
)
