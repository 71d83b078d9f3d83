package glean

// Kind classifies the content a handle refers to.
type Kind string

const (
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindDocument  Kind = "document"
	KindAudio     Kind = "audio"
	KindVideo     Kind = "video"
	KindRemoteURL Kind = "remote-url"
)

// ProcessingState tracks server-side ingestion of a handle's content.
type ProcessingState string

const (
	StatePending ProcessingState = "pending"
	StateReady   ProcessingState = "ready"
	StateFailed  ProcessingState = "failed"
)

// ContentHandle is an opaque reference to content that can back extraction
// requests. Handles are owned by a single pipeline invocation and discarded
// at the end of the run. A handle is never mutated: the Poller returns
// fresh copies as the processing state advances.
type ContentHandle struct {
	ID       string
	Kind     Kind
	State    ProcessingState
	MIMEType string

	Text string // inline text content
	Data []byte // inline image bytes
	Path string // local file backing a document/audio/video handle
	URI  string // uploaded-file URI or remote URL

	// storage identifier used to re-fetch processing state
	name string
}

// RequiresIngestion reports whether the handle must be uploaded to the file
// store and polled to readiness before it can back an extraction request.
func (h *ContentHandle) RequiresIngestion() bool {
	switch h.Kind {
	case KindDocument, KindAudio, KindVideo:
		return true
	}
	return false
}

// clone returns a copy of h so state transitions never mutate the original.
func (h *ContentHandle) clone() *ContentHandle {
	c := *h
	return &c
}
