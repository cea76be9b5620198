package status

type (
	Code   uint16
	Status string
)

// The subset of codes a form body may end up being rejected with. Values follow the
// IANA registry, see https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml
const (
	BadRequest                  Code = 400 // RFC 9110, 15.5.1
	RequestEntityTooLarge       Code = 413 // RFC 9110, 15.5.14
	UnsupportedMediaType        Code = 415 // RFC 9110, 15.5.16
	RequestHeaderFieldsTooLarge Code = 431 // RFC 6585, 5

	InternalServerError Code = 500 // RFC 9110, 15.6.1
)

// Text returns a text for the HTTP status code. Unknown codes result in
// "Unknown Status Code".
func Text(code Code) Status {
	switch code {
	case BadRequest:
		return "Bad Request"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case UnsupportedMediaType:
		return "Unsupported Media Type"
	case RequestHeaderFieldsTooLarge:
		return "Request Header Fields Too Large"
	case InternalServerError:
		return "Internal Server Error"
	default:
		return "Unknown Status Code"
	}
}
