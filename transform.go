package nextfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// DefaultTransformResponse is the transform hook installed by New. It parses
// the body as JSON; a read or parse failure, or an empty body, downgrades to
// {Success: false, Response: nil}. Success is true only for HTTP 200 —
// deliberately narrower than the 2xx check that routes between the response
// and error interceptor chains.
func DefaultTransformResponse(ctx context.Context, resp *http.Response) (*Result, error) {
	raw, payload := decodeBody(resp)
	if payload == nil {
		return &Result{Success: false, Response: nil, Native: resp, raw: raw}, nil
	}
	return &Result{
		Success:  resp.StatusCode == http.StatusOK,
		Response: payload,
		Native:   resp,
		raw:      raw,
	}, nil
}

// decodeBody reads the full body, restores it on the response for re-reading,
// and returns the raw bytes plus the decoded JSON payload (nil when the body
// is empty or not valid JSON).
func decodeBody(resp *http.Response) (raw []byte, payload any) {
	if resp == nil || resp.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return raw, nil
	}
	return raw, payload
}
