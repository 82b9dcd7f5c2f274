package plugin

// ResultKind is the type of one message handed back to the host.
type ResultKind string

const (
	Plain ResultKind = "plain"
	Image ResultKind = "image"
)

// Result is one message in a command's output sequence. Image results carry
// a filesystem path the host reads and dispatches.
type Result struct {
	Kind ResultKind `json:"type"`
	Text string     `json:"text,omitempty"`
	Path string     `json:"path,omitempty"`
}

func PlainResult(text string) Result { return Result{Kind: Plain, Text: text} }
func ImageResult(path string) Result { return Result{Kind: Image, Path: path} }

// Emitter is the host's event-result channel.
type Emitter interface {
	Emit(Result) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Result) error

func (f EmitterFunc) Emit(r Result) error { return f(r) }

// Collector buffers results, for hosts that reply once per request.
type Collector struct {
	Results []Result
}

func (c *Collector) Emit(r Result) error {
	c.Results = append(c.Results, r)
	return nil
}
