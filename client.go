package nextfetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a configurable request client layered over a native fetch
// primitive. It holds default options and four ordered interceptor lists;
// both are fixed at construction, so a single instance is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	fetcher    Fetcher
	defaults   *Options

	requestInterceptors       []RequestInterceptor
	responseInterceptors      []ResponseInterceptor
	errorInterceptors         []ErrorInterceptor
	internalErrorInterceptors []InternalErrorInterceptor

	deduplication  *DeduplicationTracker
	dedupKeyFunc   DeduplicationKeyFunc
	dedupCondition DeduplicationCondition

	metrics *MetricsCollector
	debug   *DebugConfig
	logger  Logger

	validationError error
}

// New constructs a Client using the provided functional options. A best effort
// validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		defaults: &Options{
			Method: http.MethodGet,
			Headers: map[string]string{
				headerContentType: ContentTypeJSON,
			},
			Credentials: defaultCredentials,
			Transform: &Transform{
				Request:           []RequestInterceptor{DefaultRequestInterceptor},
				TransformResponse: DefaultTransformResponse,
			},
			RequestOptions: &RequestOptions{},
		},
		dedupKeyFunc:   DefaultDeduplicationKeyFunc,
		dedupCondition: DefaultDeduplicationCondition,
		debug:          DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Fetch performs one call: it merges opts over the instance defaults, builds
// the per-call interceptor chains (instance-registered, then Transform hooks
// from the merged options, then call-site interceptors), runs the request
// chain, invokes the underlying fetch, and routes the response through the
// response or error chain depending on HTTP status.
//
// HTTP-level failures are returned as a Result with Success false, never as
// an error. Internal failures (network errors, request interceptor errors)
// pass through the internal-error chain and are returned as errors.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts *Options, interceptors *Interceptors) (*Result, error) {
	start := time.Now()
	merged := mergeOptions(c.defaults, opts)
	method := methodOrDefault(merged.Method)
	endpoint := endpointFromURL(rawURL)

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request", "requestID", requestID, "method", method, "url", rawURL, "endpoint", endpoint)
	}

	if c.metrics != nil {
		c.metrics.RecordRequestStart(method, endpoint)
	}

	result, err := c.dispatch(ctx, rawURL, merged, c.buildChain(merged, interceptors), requestID, start)

	if c.metrics != nil {
		c.metrics.RecordRequestEnd(method, endpoint)
		statusCode := 0
		if result != nil && result.Native != nil {
			statusCode = result.Native.StatusCode
		}
		c.metrics.RecordRequest(method, endpoint, statusCode, time.Since(start))
	}

	return result, err
}

func (c *Client) dispatch(ctx context.Context, rawURL string, merged *Options, ch *chain, requestID string, start time.Time) (*Result, error) {
	finalURL, finalOpts, err := c.runRequestChain(ctx, rawURL, merged, ch.request)
	if err != nil {
		return nil, c.failInternal(ctx, ch, ErrorTypeInterceptor, "request interceptor failed", err, requestID, methodOrDefault(merged.Method), finalURL, start)
	}
	method := methodOrDefault(finalOpts.Method)

	if c.debug != nil && c.debug.Enabled && c.debug.LogInterceptors && c.logger != nil {
		c.logger.Debug("Request chain complete", "requestID", requestID, "url", finalURL,
			"request", len(ch.request), "response", len(ch.response), "error", len(ch.err), "internalError", len(ch.internalError))
	}

	coalesce := c.deduplication != nil &&
		!(finalOpts.RequestOptions != nil && finalOpts.RequestOptions.IgnoreRepeatRequest) &&
		c.dedupCondition(method, finalURL)
	if !coalesce {
		return c.exchange(ctx, finalURL, finalOpts, ch, requestID, start)
	}

	key := c.dedupKeyFunc(method, finalURL, finalOpts.Body)
	entry, owner := c.deduplication.GetOrCreateEntry(key)
	if !owner {
		if c.metrics != nil {
			c.metrics.RecordDeduplicationHit(method, endpointFromURL(finalURL))
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
			c.logger.Debug("Coalesced onto in-flight request", "requestID", requestID, "dedupKey", key)
		}
		return entry.Wait(ctx)
	}

	result, err := c.exchange(ctx, finalURL, finalOpts, ch, requestID, start)
	c.deduplication.Complete(key, result, err)
	return result, err
}

// exchange performs the network call and response-side handling for one
// finalized request.
func (c *Client) exchange(ctx context.Context, finalURL string, finalOpts *Options, ch *chain, requestID string, start time.Time) (*Result, error) {
	resp, err := c.fetch(ctx, finalURL, finalOpts)
	if err != nil {
		return nil, c.failInternal(ctx, ch, ErrorTypeNetwork, "network request failed", err, requestID, methodOrDefault(finalOpts.Method), finalURL, start)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	if c.debug != nil && c.debug.Enabled && c.debug.LogResponses && c.logger != nil {
		c.logger.Debug("Response received", "requestID", requestID, "status", resp.StatusCode, "ok", ok)
	}

	if ok {
		resp, err = c.runResponseChain(ctx, resp, ch.response)
		if err != nil {
			return nil, err
		}
		if finalOpts.Transform != nil && finalOpts.Transform.TransformResponse != nil {
			return finalOpts.Transform.TransformResponse(ctx, resp)
		}
		raw, payload := decodeBody(resp)
		return &Result{Success: ok, Response: payload, Native: resp, raw: raw}, nil
	}

	resp, err = c.runErrorChain(ctx, resp, ch.err)
	if err != nil {
		return nil, err
	}
	// The transform hook is not applied on the failure path.
	raw, payload := decodeBody(resp)
	return &Result{Success: false, Response: payload, Native: resp, raw: raw}, nil
}

// failInternal wraps an internal failure, runs it through the internal-error
// chain and returns the final error. Interceptors may replace the error but
// never suppress it.
func (c *Client) failInternal(ctx context.Context, ch *chain, errType, message string, cause error, requestID, method, rawURL string, start time.Time) error {
	if errors.Is(cause, ErrRateLimited) {
		errType = ErrorTypeRateLimit
	}
	if c.metrics != nil {
		c.metrics.RecordError(errType, method, endpointFromURL(rawURL))
	}

	wrapped := &ClientError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		RequestID: requestID,
		Method:    method,
		URL:       rawURL,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}

	final := c.runInternalErrorChain(ctx, wrapped, ch.internalError)

	if c.debug != nil && c.debug.Enabled && c.logger != nil {
		c.logger.Warn("Request failed", "requestID", requestID, "error", final.Error())
	}
	return final
}

func (c *Client) fetch(ctx context.Context, rawURL string, opts *Options) (*http.Response, error) {
	if c.fetcher != nil {
		return c.fetcher(ctx, rawURL, opts)
	}
	return c.netFetch(ctx, rawURL, opts)
}

// netFetch is the default Fetcher backed by net/http. Credentials, Mode and
// Extra have no net/http equivalent and are left for custom Fetchers.
func (c *Client) netFetch(ctx context.Context, rawURL string, opts *Options) (*http.Response, error) {
	var body io.Reader
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, methodOrDefault(opts.Method), rawURL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	return c.httpClient.Do(req)
}

// Get performs a GET call.
func (c *Client) Get(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	opts = forceMethod(opts, http.MethodGet)
	return c.Fetch(ctx, rawURL, opts, nil)
}

// Post performs a POST call with the given payload.
func (c *Client) Post(ctx context.Context, rawURL string, data any, opts *Options) (*Result, error) {
	opts = forceMethod(opts, http.MethodPost)
	opts.Data = data
	return c.Fetch(ctx, rawURL, opts, nil)
}

// GetJSON performs a GET call and decodes the response payload into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	result, err := c.Get(ctx, rawURL, nil)
	if err != nil {
		return err
	}
	return result.Decode(out)
}

// PostJSON performs a POST call with a JSON payload and decodes the response
// payload into out; out may be nil to discard it.
func (c *Client) PostJSON(ctx context.Context, rawURL string, data, out any) error {
	result, err := c.Post(ctx, rawURL, data, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return result.Decode(out)
}

func forceMethod(opts *Options, method string) *Options {
	opts = opts.clone()
	opts.Method = method
	return opts
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

func endpointFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}

	host := u.Host
	path := u.Path

	var builder strings.Builder
	builder.WriteString(host)

	if path != "" && path != "/" {
		builder.WriteString(path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
