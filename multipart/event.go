package multipart

import "github.com/indigo-web/formdata/kv"

// Event is emitted by the Parser. It is one of PreambleData, PostambleData, StartPart,
// BodyData, EndPart or ParseError. Byte slices carried by events are only valid until the
// callback they were passed to returns.
type Event interface {
	event()
}

type (
	// PreambleData is content preceding the first delimiter.
	PreambleData []byte
	// PostambleData is content following the close delimiter.
	PostambleData []byte
	// StartPart opens a part, carrying its header block.
	StartPart struct {
		Header *kv.Storage
	}
	// BodyData is a piece of the current part's body. A single body may be split into any
	// number of BodyData events.
	BodyData []byte
	// EndPart closes the current part.
	EndPart struct{}
	// ParseError reports a FormatError. It is the last event the parser ever emits.
	ParseError struct {
		Err error
	}
)

func (PreambleData) event()  {}
func (PostambleData) event() {}
func (StartPart) event()     {}
func (BodyData) event()      {}
func (EndPart) event()       {}
func (ParseError) event()    {}
