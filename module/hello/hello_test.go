package hello

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/internal/exchange"
)

func parseSite(t *testing.T, directive string) *config.SiteConfig {
	t.Helper()
	site := config.NewSiteConfig("*")
	if directive == "" {
		return site
	}
	nodes, err := config.ParseTree("test-site.conf", directive)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.NoError(t, parseDirective(nodes[0], site))
	return site
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name      string
		directive string
		want      bool
	}{
		{"absent directive defaults to disabled", "", false},
		{"bare directive enables", "example_handler", true},
		{"explicit true", "example_handler #true", true},
		{"explicit false", "example_handler #false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := parseSite(t, tt.directive)
			assert.Equal(t, tt.want, site.BoolDirective(directiveName))
		})
	}
}

func TestParseDirective_InvalidArgument(t *testing.T) {
	tests := []struct {
		name      string
		directive string
	}{
		{"string argument", `example_handler "yes"`},
		{"bare word argument", "example_handler on"},
		{"number argument", "example_handler 1"},
		{"too many arguments", "example_handler #true #false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := config.NewSiteConfig("*")
			nodes, err := config.ParseTree("test-site.conf", tt.directive)
			require.NoError(t, err)

			err = parseDirective(nodes[0], site)
			require.Error(t, err)

			var confErr *config.ConfigError
			require.ErrorAs(t, err, &confErr)
			assert.Equal(t, config.ErrInvalidArgument, confErr.Kind)
			assert.Equal(t, directiveName, confErr.Directive)
		})
	}
}

func invoke(t *testing.T, site *config.SiteConfig, method, target string) (*exchange.Exchange, exchange.Outcome) {
	t.Helper()
	mod := New()
	h, err := mod.NewHandler(site)
	require.NoError(t, err)

	exch := exchange.NewExchange(httptest.NewRequest(method, target, nil))
	return exch, h.HandleRequest(exch)
}

func TestHandleRequest_Enabled(t *testing.T) {
	site := parseSite(t, "example_handler")

	exch, outcome := invoke(t, site, "GET", "/hello")
	assert.Equal(t, exchange.Handled, outcome)
	assert.Equal(t, 200, exch.ResponseState.StatusCode)
	assert.Equal(t, "text/plain", exch.ResponseState.Headers["Content-Type"])
	assert.Equal(t, "Hello World!", string(exch.ResponseState.Body))
}

func TestHandleRequest_MethodNotChecked(t *testing.T) {
	site := parseSite(t, "example_handler #true")

	for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
		exch, outcome := invoke(t, site, method, "/hello")
		assert.Equal(t, exchange.Handled, outcome, method)
		assert.Equal(t, "Hello World!", string(exch.ResponseState.Body))
	}
}

func TestHandleRequest_PathIsExactMatch(t *testing.T) {
	site := parseSite(t, "example_handler")

	for _, path := range []string{"/hello/", "/Hello", "/", "/hello/world", "/helloo"} {
		_, outcome := invoke(t, site, "GET", path)
		assert.Equal(t, exchange.NotHandled, outcome, path)
	}

	// the query string is not part of the path
	_, outcome := invoke(t, site, "GET", "/hello?name=world")
	assert.Equal(t, exchange.Handled, outcome)
}

func TestHandleRequest_Disabled(t *testing.T) {
	for _, directive := range []string{"", "example_handler #false"} {
		site := parseSite(t, directive)
		_, outcome := invoke(t, site, "GET", "/hello")
		assert.Equal(t, exchange.NotHandled, outcome)
	}
}

func TestHandleRequest_Idempotent(t *testing.T) {
	site := parseSite(t, "example_handler")
	mod := New()
	h, err := mod.NewHandler(site)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		exch := exchange.NewExchange(httptest.NewRequest("GET", "/hello", nil))
		outcome := h.HandleRequest(exch)
		assert.Equal(t, exchange.Handled, outcome)
		assert.Equal(t, "Hello World!", string(exch.ResponseState.Body))
	}
}

// TestHandleRequest_Totality checks that for an arbitrary path the handler
// never fails and only claims exactly /hello, with identical outcomes on
// repeat invocations.
func TestHandleRequest_Totality(t *testing.T) {
	site := parseSite(t, "example_handler")
	mod := New()
	h, err := mod.NewHandler(site)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		segment := rapid.StringMatching(`[a-zA-Z0-9./_-]{0,16}`).Draw(t, "segment")
		path := "/" + segment

		req := httptest.NewRequest("GET", "http://example.com"+path, nil)
		first := h.HandleRequest(exchange.NewExchange(req))
		second := h.HandleRequest(exchange.NewExchange(req))

		if first != second {
			t.Fatalf("outcome not idempotent for %q: %v then %v", path, first, second)
		}
		want := exchange.NotHandled
		if req.URL.Path == "/hello" {
			want = exchange.Handled
		}
		if first != want {
			t.Fatalf("unexpected outcome for %q: got %v, want %v", path, first, want)
		}
	})
}
