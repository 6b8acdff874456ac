package exchange

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/modserve-project/modserve-go/internal/store"
)

// Exchange carries one request through the handler chain. Handlers read
// the request and, when they elect to handle it, populate ResponseState.
// The site configuration referenced by the handlers is immutable for the
// duration of the exchange.
type Exchange struct {
	RequestID     string
	Request       *RequestContext
	RequestStore  *store.Store
	ResponseState *ResponseState
}

// RequestContext holds request-related data
type RequestContext struct {
	Request *http.Request
}

// NewExchange creates an Exchange for an incoming request, with a fresh
// request-scoped store and a default response state.
func NewExchange(req *http.Request) *Exchange {
	return &Exchange{
		RequestID:     uuid.NewString(),
		Request:       &RequestContext{Request: req},
		RequestStore:  store.NewRequestStore(),
		ResponseState: NewResponseState(),
	}
}
