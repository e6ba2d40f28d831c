package nextfetch

import (
	"context"
	"net/http"
)

// chain is the per-call interceptor pipeline: instance-registered hooks
// first, then hooks declared in the merged options' Transform, then hooks
// passed at the call site. Lists are concatenated, never deduplicated, and a
// fresh chain is built for every call.
type chain struct {
	request       []RequestInterceptor
	response      []ResponseInterceptor
	err           []ErrorInterceptor
	internalError []InternalErrorInterceptor
}

func (c *Client) buildChain(merged *Options, callsite *Interceptors) *chain {
	ch := &chain{
		request:       append([]RequestInterceptor(nil), c.requestInterceptors...),
		response:      append([]ResponseInterceptor(nil), c.responseInterceptors...),
		err:           append([]ErrorInterceptor(nil), c.errorInterceptors...),
		internalError: append([]InternalErrorInterceptor(nil), c.internalErrorInterceptors...),
	}
	if t := merged.Transform; t != nil {
		ch.request = append(ch.request, t.Request...)
		ch.response = append(ch.response, t.Response...)
		ch.err = append(ch.err, t.Error...)
		ch.internalError = append(ch.internalError, t.InternalError...)
	}
	if callsite != nil {
		ch.request = append(ch.request, callsite.Request...)
		ch.response = append(ch.response, callsite.Response...)
		ch.err = append(ch.err, callsite.Error...)
		ch.internalError = append(ch.internalError, callsite.InternalError...)
	}
	return ch
}

// runRequestChain threads (url, opts) through each request interceptor in
// order. Context cancellation is checked between stages.
func (c *Client) runRequestChain(ctx context.Context, url string, opts *Options, interceptors []RequestInterceptor) (string, *Options, error) {
	for _, interceptor := range interceptors {
		if err := ctx.Err(); err != nil {
			return url, opts, err
		}
		var err error
		url, opts, err = interceptor(ctx, url, opts)
		if err != nil {
			return url, opts, err
		}
		if c.metrics != nil {
			c.metrics.RecordInterceptorRun("request")
		}
	}
	return url, opts, nil
}

func (c *Client) runResponseChain(ctx context.Context, resp *http.Response, interceptors []ResponseInterceptor) (*http.Response, error) {
	for _, interceptor := range interceptors {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		var err error
		resp, err = interceptor(ctx, resp)
		if err != nil {
			return resp, err
		}
		if c.metrics != nil {
			c.metrics.RecordInterceptorRun("response")
		}
	}
	return resp, nil
}

func (c *Client) runErrorChain(ctx context.Context, resp *http.Response, interceptors []ErrorInterceptor) (*http.Response, error) {
	for _, interceptor := range interceptors {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		var err error
		resp, err = interceptor(ctx, resp)
		if err != nil {
			return resp, err
		}
		if c.metrics != nil {
			c.metrics.RecordInterceptorRun("error")
		}
	}
	return resp, nil
}

// runInternalErrorChain feeds the current error through each internal-error
// interceptor. A non-nil return replaces the error; a nil return keeps the
// previous one. The final error is always returned to the caller.
func (c *Client) runInternalErrorChain(ctx context.Context, err error, interceptors []InternalErrorInterceptor) error {
	for _, interceptor := range interceptors {
		if replacement := interceptor(ctx, err); replacement != nil {
			err = replacement
		}
		if c.metrics != nil {
			c.metrics.RecordInterceptorRun("internal_error")
		}
	}
	return err
}
