package config

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/indigo-web/formdata/http/mime"
)

// Unlimited disables a limit.
const Unlimited = math.MaxInt

type (
	// Limits bound the resources a single form may occupy. All of them are checked as the
	// data arrives, so an oversized entity is rejected before it's buffered completely.
	Limits struct {
		// FieldNameSize is the maximal length of a part name (both fields and files.)
		FieldNameSize int `validate:"gt=0"`
		// FieldSize is the maximal size of a single field value in bytes.
		FieldSize int `validate:"gte=0"`
		// Fields is the maximal number of distinct field names.
		Fields int `validate:"gte=0"`
		// FileSize is the maximal size of a single file in bytes.
		FileSize int `validate:"gte=0"`
		// Files is the maximal number of files in a single form.
		Files int `validate:"gte=0"`
		// HeaderPairs is the maximal number of header lines a part may have. Excessive lines
		// are silently dropped.
		HeaderPairs int `validate:"gt=0"`
	}

	Multipart struct {
		// MaxHeaderLength limits the header block of a single part, including the terminating
		// empty line. It also bounds the transport padding after a delimiter.
		MaxHeaderLength int `validate:"gte=4"`
		// HeaderCharset is the encoding part headers are decoded with. ISO-8859-1 is used as
		// the fallback when the header block isn't valid in it.
		HeaderCharset mime.Charset `validate:"required"`
		Limits        Limits
	}

	Form struct {
		// DefaultCharset is used to decode field values unless the form overrides it via the
		// _charset_ field.
		DefaultCharset mime.Charset `validate:"required"`
		// DefaultContentType is assumed for parts with no Content-Type header.
		DefaultContentType mime.MIME `validate:"required"`
		// FlagValue is the value assigned to urlencoded keys without the equality sign.
		FlagValue string `test:"nullable"`
	}

	Body struct {
		// ReadBufferSize is the size of a buffer used to read the body from an io.Reader.
		ReadBufferSize int `validate:"gt=0"`
		// MaxSize limits the decoded body size. Use Unlimited to disable the limit.
		MaxSize int `validate:"gt=0"`
	}
)

// Config holds settings used across the form parsing, mainly restrictions and limitations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Multipart Multipart
	Form      Form
	Body      Body
}

// Default returns default config. Limits which aren't bounded by default are set to Unlimited.
func Default() *Config {
	return &Config{
		Multipart: Multipart{
			MaxHeaderLength: 4 * 1024,
			HeaderCharset:   mime.UTF8,
			Limits: Limits{
				FieldNameSize: 100,
				FieldSize:     1024 * 1024,
				Fields:        Unlimited,
				FileSize:      Unlimited,
				Files:         Unlimited,
				HeaderPairs:   2000,
			},
		},
		Form: Form{
			DefaultCharset:     mime.UTF8,
			DefaultContentType: mime.Plain,
		},
		Body: Body{
			ReadBufferSize: 4 * 1024,
			MaxSize:        512 * 1024 * 1024, // 512 megabytes
		},
	}
}

var validate = validator.New()

// Validate reports settings which can't possibly work, e.g. a header length too short to
// fit even an empty header block.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
