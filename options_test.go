package nextfetch

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestWithHeadersMergesDefaults(t *testing.T) {
	client := New(WithHeaders(map[string]string{"X-App": "svc"}))

	if got := client.defaults.Headers["X-App"]; got != "svc" {
		t.Errorf("Expected X-App header, got %s", got)
	}
	if got := client.defaults.Headers[headerContentType]; got != ContentTypeJSON {
		t.Errorf("Expected default Content-Type kept, got %s", got)
	}
}

func TestWithRequestOptions(t *testing.T) {
	client := New(WithRequestOptions(&RequestOptions{
		URLPrefix: "https://example.com",
		JoinTime:  true,
	}))

	if client.defaults.RequestOptions.URLPrefix != "https://example.com" {
		t.Errorf("Expected URLPrefix set, got %s", client.defaults.RequestOptions.URLPrefix)
	}
	if !client.defaults.RequestOptions.JoinTime {
		t.Error("Expected JoinTime enabled")
	}
}

func TestWithTransformAppendsHooks(t *testing.T) {
	hook := func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
		return url, opts, nil
	}
	client := New(WithTransform(&Transform{Request: []RequestInterceptor{hook}}))

	// Default request interceptor plus the added hook.
	if got := len(client.defaults.Transform.Request); got != 2 {
		t.Errorf("Expected 2 transform request hooks, got %d", got)
	}
	if client.defaults.Transform.TransformResponse == nil {
		t.Error("Expected default transform-response hook kept")
	}
}

func TestWithInterceptorsBundle(t *testing.T) {
	client := New(WithInterceptors(&Interceptors{
		Request: []RequestInterceptor{
			func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
				return url, opts, nil
			},
		},
		InternalError: []InternalErrorInterceptor{
			func(ctx context.Context, err error) error { return nil },
		},
	}))

	if len(client.requestInterceptors) != 1 {
		t.Errorf("Expected 1 instance request interceptor, got %d", len(client.requestInterceptors))
	}
	if len(client.internalErrorInterceptors) != 1 {
		t.Errorf("Expected 1 instance internal-error interceptor, got %d", len(client.internalErrorInterceptors))
	}
}

func TestWithTimeout(t *testing.T) {
	client := New(WithTimeout(5 * time.Second))

	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("Expected timeout=5s, got %v", client.httpClient.Timeout)
	}
}

func TestValidationNilInterceptor(t *testing.T) {
	client := New(WithRequestInterceptor(nil))

	if client.IsValid() {
		t.Fatal("Expected invalid configuration for nil interceptor")
	}
	if err := client.ValidationError(); err == nil {
		t.Fatal("Expected validation error")
	}
}

func TestValidationDebugWithoutLogger(t *testing.T) {
	client := New(WithDebug())

	if client.IsValid() {
		t.Fatal("Expected invalid configuration for debug without logger")
	}
}

func TestValidationNilTransport(t *testing.T) {
	client := New(WithHTTPClient(nil))

	if client.IsValid() {
		t.Fatal("Expected invalid configuration for nil HTTP client without fetcher")
	}
}

func TestDebugLoggingPath(t *testing.T) {
	fetcher := &stubFetcher{body: `{}`}
	client := New(
		WithFetcher(fetcher.fetch),
		WithSimpleLogger(),
	)
	if !client.IsValid() {
		t.Fatalf("Expected valid configuration, got %v", client.ValidationError())
	}

	if _, err := client.Fetch(context.Background(), "http://example.com/x", nil, nil); err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
}

func TestWithMethodAndCredentials(t *testing.T) {
	client := New(
		WithMethod(http.MethodPost),
		WithCredentials("include"),
		WithMode("cors"),
	)

	if client.defaults.Method != http.MethodPost {
		t.Errorf("Expected default method POST, got %s", client.defaults.Method)
	}
	if client.defaults.Credentials != "include" {
		t.Errorf("Expected credentials include, got %s", client.defaults.Credentials)
	}
	if client.defaults.Mode != "cors" {
		t.Errorf("Expected mode cors, got %s", client.defaults.Mode)
	}
}
