package exchange

import "net/http"

// Outcome is the tagged result of a handler invocation. A handler either
// produces a terminal response (Handled) or defers to the next handler
// in the chain (NotHandled). No other states exist.
type Outcome int

const (
	NotHandled Outcome = iota
	Handled
)

func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}
	return "not handled"
}

// ResponseState accumulates the response a handler elects to produce.
type ResponseState struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// NewResponseState creates a ResponseState with default values.
func NewResponseState() *ResponseState {
	return &ResponseState{
		StatusCode: http.StatusOK,
		Headers:    make(map[string]string),
	}
}

// WriteToResponseWriter writes the final state to the http.ResponseWriter.
func (rs *ResponseState) WriteToResponseWriter(w http.ResponseWriter) {
	for key, value := range rs.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(rs.StatusCode)
	if rs.Body != nil {
		w.Write(rs.Body)
	}
}

// stateWriter adapts a ResponseState to http.ResponseWriter so handlers
// can delegate to stock http.Handler implementations without writing to
// the client directly.
type stateWriter struct {
	rs          *ResponseState
	header      http.Header
	wroteHeader bool
}

// NewStateWriter returns an http.ResponseWriter that records writes into
// the given ResponseState.
func NewStateWriter(rs *ResponseState) http.ResponseWriter {
	return &stateWriter{rs: rs, header: make(http.Header)}
}

func (w *stateWriter) Header() http.Header {
	return w.header
}

func (w *stateWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.rs.StatusCode = statusCode
	for key := range w.header {
		w.rs.Headers[key] = w.header.Get(key)
	}
}

func (w *stateWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	w.rs.Body = append(w.rs.Body, b...)
	return len(b), nil
}
