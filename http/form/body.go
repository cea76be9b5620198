package form

import (
	"log/slog"

	json "github.com/json-iterator/go"
	"github.com/samber/lo"

	"github.com/indigo-web/formdata/config"
	"github.com/indigo-web/formdata/internal/qparams"
	"github.com/indigo-web/formdata/internal/urlencoded"
)

// Body is a parsed request body representation. It is one of URLEncoded, JSON or Raw.
type Body interface {
	body()
}

type (
	// URLEncoded is a flat name-to-value map, as produced by both
	// application/x-www-form-urlencoded and the textual part of multipart/form-data.
	URLEncoded map[string]Value
	// JSON is a decoded application/json body.
	JSON struct {
		Value any
	}
	// Raw is a body which wasn't interpreted.
	Raw []byte
)

func (URLEncoded) body() {}
func (JSON) body()       {}
func (Raw) body()        {}

// Request is the part of a request the form parsing is concerned with.
type Request struct {
	Body  Body
	Files Files
}

// Attach merges a parsed multipart form into the request. Fields become the URLEncoded body
// if there was none yet, and are merged into an existing URLEncoded body otherwise, with
// the new values taking precedence. Any other body representation can't hold form fields,
// so they are dropped with a warning. Files are attached in any case, appended to the
// files already present under the same name.
func (r *Request) Attach(fields *Fields, files Files, log *slog.Logger) {
	switch body := r.Body.(type) {
	case nil:
		r.Body = URLEncoded(lo.Assign(fields.Map()))
	case URLEncoded:
		r.Body = URLEncoded(lo.Assign(map[string]Value(body), fields.Map()))
	default:
		if fields.Len() > 0 {
			log.Warn("form fields are discarded: request body is already parsed as a different type",
				"body", bodyKind(body),
				"fields", fields.Keys(),
			)
		}
	}

	if r.Files == nil {
		r.Files = files
		return
	}

	for name, list := range files {
		r.Files[name] = append(r.Files[name], list...)
	}
}

func bodyKind(b Body) string {
	switch b.(type) {
	case JSON:
		return "json"
	case Raw:
		return "raw"
	default:
		return "unknown"
	}
}

// ParseURLEncoded parses an application/x-www-form-urlencoded body. Repeated keys result
// in Multiple values.
func ParseURLEncoded(cfg *config.Config, data []byte) (URLEncoded, error) {
	fields := NewFields()
	err := qparams.Parse(data, func(k, v string) {
		fields.Add(k, v)
	}, urlencoded.ExtendedDecode, cfg.Form.FlagValue)
	if err != nil {
		return nil, err
	}

	return fields.Map(), nil
}

// ParseJSON decodes an application/json body.
func ParseJSON(data []byte) (JSON, error) {
	var value any
	iterator := json.ConfigDefault.BorrowIterator(data)
	iterator.ReadVal(&value)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return JSON{Value: value}, err
}
