package nextfetch

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HeaderXRequestID is the default header set by the trace ID interceptor.
const HeaderXRequestID = "X-Request-ID"

// NewTraceIDInterceptor creates a request interceptor that sets a uuid trace
// header when the request does not already carry one.
func NewTraceIDInterceptor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
		if opts.Headers == nil {
			opts.Headers = map[string]string{}
		}
		if opts.Headers[header] == "" {
			opts.Headers[header] = uuid.NewString()
		}
		return url, opts, nil
	}
}

// NewHeaderInterceptor creates a request interceptor injecting static
// headers. Existing per-call headers win.
func NewHeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
		if opts.Headers == nil {
			opts.Headers = map[string]string{}
		}
		for k, v := range headers {
			if _, ok := opts.Headers[k]; !ok {
				opts.Headers[k] = v
			}
		}
		return url, opts, nil
	}
}

// NewLoggingInterceptor creates a request interceptor logging the request
// line before the network call.
func NewLoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
		logger.Info("Request", "method", methodOrDefault(opts.Method), "url", url)
		return url, opts, nil
	}
}

// NewResponseLoggingInterceptor creates a response interceptor logging the
// response status.
func NewResponseLoggingInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, resp *http.Response) (*http.Response, error) {
		logger.Info("Response", "status", resp.StatusCode)
		return resp, nil
	}
}

// NewRateLimitInterceptor creates a request interceptor gated by a token
// bucket. Exhaustion surfaces ErrRateLimited through the internal-error path.
func NewRateLimitInterceptor(maxTokens int, refillRate time.Duration) RequestInterceptor {
	limiter := NewRateLimiter(maxTokens, refillRate)
	return func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
		if !limiter.Allow() {
			return url, opts, ErrRateLimited
		}
		return url, opts, nil
	}
}
