package nextfetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestDefaultTransform200(t *testing.T) {
	result, err := DefaultTransformResponse(context.Background(), newResponse(200, `{"a":1}`))
	if err != nil {
		t.Fatalf("DefaultTransformResponse() returned error: %v", err)
	}
	if !result.Success {
		t.Error("Expected Success=true for status 200")
	}
	payload := result.Response.(map[string]any)
	if payload["a"] != float64(1) {
		t.Errorf("Expected a=1, got %v", payload["a"])
	}
	if result.Native == nil {
		t.Error("Expected native response set")
	}
}

// The default hook treats only HTTP 200 as success, deliberately narrower
// than the 2xx check that selects the response chain.
func TestDefaultTransformNon200Success(t *testing.T) {
	result, err := DefaultTransformResponse(context.Background(), newResponse(201, `{"id":7}`))
	if err != nil {
		t.Fatalf("DefaultTransformResponse() returned error: %v", err)
	}
	if result.Success {
		t.Error("Expected Success=false for status 201 under the default hook")
	}
	if result.Response == nil {
		t.Error("Expected payload to be decoded for status 201")
	}
}

func TestDefaultTransformUnparseableBody(t *testing.T) {
	result, err := DefaultTransformResponse(context.Background(), newResponse(200, "not json"))
	if err != nil {
		t.Fatalf("DefaultTransformResponse() returned error: %v", err)
	}
	if result.Success {
		t.Error("Expected Success=false for unparseable body")
	}
	if result.Response != nil {
		t.Errorf("Expected nil payload, got %v", result.Response)
	}
}

func TestDefaultTransformEmptyBody(t *testing.T) {
	result, err := DefaultTransformResponse(context.Background(), newResponse(200, ""))
	if err != nil {
		t.Fatalf("DefaultTransformResponse() returned error: %v", err)
	}
	if result.Success {
		t.Error("Expected Success=false for empty body")
	}
	if result.Response != nil {
		t.Errorf("Expected nil payload, got %v", result.Response)
	}
}

func TestDecodeBodyRestoresBody(t *testing.T) {
	resp := newResponse(200, `{"a":1}`)
	raw, payload := decodeBody(resp)

	if string(raw) != `{"a":1}` {
		t.Errorf("Expected raw bytes captured, got %s", raw)
	}
	if payload == nil {
		t.Fatal("Expected payload decoded")
	}

	// The body must be re-readable after decoding.
	again, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to re-read body: %v", err)
	}
	if string(again) != `{"a":1}` {
		t.Errorf("Expected restored body, got %s", again)
	}
}

// TestErrorPathSkipsTransform pins the asymmetry: a configured transform hook
// never runs for non-2xx responses.
func TestErrorPathSkipsTransform(t *testing.T) {
	fetcher := &stubFetcher{status: 500, body: `{"error":"down"}`}
	hookRuns := 0
	client := New(
		WithFetcher(fetcher.fetch),
		WithTransformResponse(func(ctx context.Context, resp *http.Response) (*Result, error) {
			hookRuns++
			return &Result{Success: true, Native: resp}, nil
		}),
	)

	result, err := client.Fetch(context.Background(), "http://example.com/x", nil, nil)
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if hookRuns != 0 {
		t.Errorf("Expected transform hook not to run on failure path, ran %d times", hookRuns)
	}
	if result.Success {
		t.Error("Expected Success=false for status 500")
	}
}
