package nextfetch

import (
	"fmt"
	"net/http"
	"time"
)

// WithMethod sets the default request method.
func WithMethod(method string) Option {
	return func(c *Client) {
		c.defaults.Method = method
	}
}

// WithHeaders merges headers into the default header map.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.defaults.Headers[k] = v
		}
	}
}

// WithHeader sets a single default header.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.defaults.Headers[name] = value
	}
}

// WithCredentials sets the default credentials policy.
func WithCredentials(credentials string) Option {
	return func(c *Client) {
		c.defaults.Credentials = credentials
	}
}

// WithMode sets the default request mode.
func WithMode(mode string) Option {
	return func(c *Client) {
		c.defaults.Mode = mode
	}
}

// WithRequestOptions merges request-shaping options into the defaults.
func WithRequestOptions(ro *RequestOptions) Option {
	return func(c *Client) {
		c.defaults.RequestOptions = mergeRequestOptions(c.defaults.RequestOptions, ro)
	}
}

// WithAPIURL sets the API URL segment prepended to relative request URLs.
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		c.defaults.RequestOptions.APIURL = apiURL
	}
}

// WithURLPrefix sets the outermost URL prefix for relative request URLs.
func WithURLPrefix(prefix string) Option {
	return func(c *Client) {
		c.defaults.RequestOptions.URLPrefix = prefix
	}
}

// WithJoinTime appends a timestamp query parameter to GET requests.
func WithJoinTime() Option {
	return func(c *Client) {
		c.defaults.RequestOptions.JoinTime = true
	}
}

// WithTransform merges a transform bundle into the defaults: its interceptor
// hooks run after previously registered default hooks, and a non-nil
// TransformResponse replaces the current one.
func WithTransform(t *Transform) Option {
	return func(c *Client) {
		c.defaults.Transform = mergeTransform(c.defaults.Transform, t)
	}
}

// WithTransformResponse replaces the default response transform hook. Passing
// nil clears it, so successful responses fall back to the default-shaped
// Result built from the 2xx check.
func WithTransformResponse(hook TransformResponse) Option {
	return func(c *Client) {
		c.defaults.Transform.TransformResponse = hook
	}
}

// WithExtra merges unrecognized configuration fields forwarded to the Fetcher.
func WithExtra(extra map[string]any) Option {
	return func(c *Client) {
		c.defaults.Extra = mergeExtra(c.defaults.Extra, extra)
	}
}

// WithInterceptors registers a bundle of interceptors on the instance lists.
func WithInterceptors(ics *Interceptors) Option {
	return func(c *Client) {
		if ics == nil {
			return
		}
		c.requestInterceptors = append(c.requestInterceptors, ics.Request...)
		c.responseInterceptors = append(c.responseInterceptors, ics.Response...)
		c.errorInterceptors = append(c.errorInterceptors, ics.Error...)
		c.internalErrorInterceptors = append(c.internalErrorInterceptors, ics.InternalError...)
	}
}

// WithRequestInterceptor appends request interceptors to the instance list.
func WithRequestInterceptor(interceptors ...RequestInterceptor) Option {
	return func(c *Client) {
		c.requestInterceptors = append(c.requestInterceptors, interceptors...)
	}
}

// WithResponseInterceptor appends response interceptors to the instance list.
func WithResponseInterceptor(interceptors ...ResponseInterceptor) Option {
	return func(c *Client) {
		c.responseInterceptors = append(c.responseInterceptors, interceptors...)
	}
}

// WithErrorInterceptor appends error interceptors to the instance list.
func WithErrorInterceptor(interceptors ...ErrorInterceptor) Option {
	return func(c *Client) {
		c.errorInterceptors = append(c.errorInterceptors, interceptors...)
	}
}

// WithInternalErrorInterceptor appends internal-error interceptors to the
// instance list.
func WithInternalErrorInterceptor(interceptors ...InternalErrorInterceptor) Option {
	return func(c *Client) {
		c.internalErrorInterceptors = append(c.internalErrorInterceptors, interceptors...)
	}
}

// WithHTTPClient sets the http.Client used by the default fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the default fetcher's client timeout. Per-call
// cancellation belongs to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithFetcher replaces the underlying network primitive.
func WithFetcher(fetcher Fetcher) Option {
	return func(c *Client) {
		c.fetcher = fetcher
	}
}

// WithDeduplication enables in-flight repeat-request coalescing. Calls whose
// merged RequestOptions.IgnoreRepeatRequest is true bypass it.
func WithDeduplication() Option {
	return func(c *Client) {
		c.deduplication = NewDeduplicationTracker()
	}
}

// WithDeduplicationKeyFunc sets a custom coalescing key function.
func WithDeduplicationKeyFunc(fn DeduplicationKeyFunc) Option {
	return func(c *Client) {
		c.dedupKeyFunc = fn
	}
}

// WithDeduplicationCondition sets a custom coalescing condition function.
func WithDeduplicationCondition(fn DeduplicationCondition) Option {
	return func(c *Client) {
		c.dedupCondition = fn
	}
}

// WithMetrics enables Prometheus metrics collection.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	var errs []string

	errs = append(errs, c.validateDefaults()...)
	errs = append(errs, c.validateInterceptors()...)
	errs = append(errs, c.validateTransport()...)
	errs = append(errs, c.validateDebugConfig()...)
	errs = append(errs, c.validateDeduplicationConfig()...)

	if len(errs) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errs),
		}
	}

	return nil
}

func (c *Client) validateDefaults() []string {
	var errs []string

	if c.defaults == nil {
		return []string{"default options cannot be nil"}
	}
	if c.defaults.Method == "" {
		errs = append(errs, "default method cannot be empty")
	}
	if c.defaults.Headers == nil {
		errs = append(errs, "default headers cannot be nil")
	}
	if c.defaults.RequestOptions == nil {
		errs = append(errs, "default request options cannot be nil")
	}
	if c.defaults.Transform == nil {
		errs = append(errs, "default transform cannot be nil")
	}

	return errs
}

func (c *Client) validateInterceptors() []string {
	var errs []string

	for i, interceptor := range c.requestInterceptors {
		if interceptor == nil {
			errs = append(errs, fmt.Sprintf("request interceptor[%d] cannot be nil", i))
		}
	}
	for i, interceptor := range c.responseInterceptors {
		if interceptor == nil {
			errs = append(errs, fmt.Sprintf("response interceptor[%d] cannot be nil", i))
		}
	}
	for i, interceptor := range c.errorInterceptors {
		if interceptor == nil {
			errs = append(errs, fmt.Sprintf("error interceptor[%d] cannot be nil", i))
		}
	}
	for i, interceptor := range c.internalErrorInterceptors {
		if interceptor == nil {
			errs = append(errs, fmt.Sprintf("internal-error interceptor[%d] cannot be nil", i))
		}
	}

	return errs
}

func (c *Client) validateTransport() []string {
	var errs []string

	if c.fetcher == nil && c.httpClient == nil {
		errs = append(errs, "HTTP client cannot be nil without a custom fetcher")
	}

	return errs
}

func (c *Client) validateDebugConfig() []string {
	var errs []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errs = append(errs, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errs = append(errs, "logger must be set when debug is enabled")
		}
	}

	return errs
}

func (c *Client) validateDeduplicationConfig() []string {
	var errs []string

	if c.deduplication != nil {
		if c.dedupKeyFunc == nil {
			errs = append(errs, "deduplication key function must be set when deduplication is enabled")
		}
		if c.dedupCondition == nil {
			errs = append(errs, "deduplication condition must be set when deduplication is enabled")
		}
	}

	return errs
}
