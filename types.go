package nextfetch

import (
	"context"
	"encoding/json"
	"net/http"
)

// RequestInterceptor runs before the network call. It receives the target URL
// and the merged options and returns a replacement pair; each interceptor's
// output feeds the next one in the chain.
type RequestInterceptor func(ctx context.Context, url string, opts *Options) (string, *Options, error)

// ResponseInterceptor runs after a successful (2xx) response, receiving and
// returning the response object.
type ResponseInterceptor func(ctx context.Context, resp *http.Response) (*http.Response, error)

// ErrorInterceptor runs after a non-2xx response, receiving and returning the
// response object.
type ErrorInterceptor func(ctx context.Context, resp *http.Response) (*http.Response, error)

// InternalErrorInterceptor runs when the call fails before response handling
// (network failure, request interceptor error). It may return a replacement
// error; a nil return keeps the previous one.
type InternalErrorInterceptor func(ctx context.Context, err error) error

// TransformResponse converts a raw response into the normalized Result shape.
type TransformResponse func(ctx context.Context, resp *http.Response) (*Result, error)

// Fetcher is the underlying network primitive. The default implementation is
// backed by net/http; alternative implementations (test doubles, non-standard
// transports) receive the final URL and options untouched.
type Fetcher func(ctx context.Context, url string, opts *Options) (*http.Response, error)

// Interceptors bundles the four per-kind interceptor lists. The same shape is
// accepted at construction and at the call site.
type Interceptors struct {
	Request       []RequestInterceptor
	Response      []ResponseInterceptor
	Error         []ErrorInterceptor
	InternalError []InternalErrorInterceptor
}

// Transform carries per-configuration interceptor hooks plus the response
// transform. Hooks declared here run after instance-registered interceptors
// and before call-site interceptors.
type Transform struct {
	Request           []RequestInterceptor
	Response          []ResponseInterceptor
	Error             []ErrorInterceptor
	InternalError     []InternalErrorInterceptor
	TransformResponse TransformResponse
}

// RequestOptions holds request-shaping options consumed by the default
// request interceptor.
type RequestOptions struct {
	// APIURL is appended to URLPrefix when building the final URL.
	APIURL string
	// URLPrefix is the outermost URL prefix.
	URLPrefix string
	// JoinTime appends a timestamp query parameter to GET requests.
	JoinTime bool
	// IgnoreRepeatRequest bypasses in-flight request coalescing for this call.
	IgnoreRepeatRequest bool
}

// Options is the merged request configuration. Instance defaults and per-call
// values combine via deep merge: scalar fields overwrite when set, map fields
// merge key-by-key, RequestOptions and Transform merge field-by-field.
type Options struct {
	Method      string
	Headers     map[string]string
	Credentials string
	Mode        string

	// Params is either a plain map (serialized into the query string for GET
	// requests) or a pre-built query string appended verbatim.
	Params any
	// Data is the request payload for non-GET requests, serialized according
	// to the declared Content-Type header.
	Data any
	// Body is the raw request body. The default request interceptor fills it
	// from Params/Data; interceptors may set it directly.
	Body []byte

	Transform      *Transform
	RequestOptions *RequestOptions

	// Extra holds fields not recognized by this package. They are merged like
	// the rest of the configuration and forwarded to the Fetcher; the default
	// net/http fetcher ignores them.
	Extra map[string]any
}

// Result is the uniform return shape regardless of success or failure path.
type Result struct {
	Success bool
	// Response is the decoded payload, nil when the body was empty or
	// unparseable.
	Response any
	// Native is the underlying response with its body restored for re-reading.
	Native *http.Response

	raw []byte
}

// Raw returns the raw response body bytes captured while decoding, if any.
func (r *Result) Raw() []byte {
	return r.raw
}

// Decode unmarshals the response payload into v. It prefers the captured raw
// body and falls back to re-encoding the decoded payload for Results built by
// custom transforms.
func (r *Result) Decode(v any) error {
	if len(r.raw) > 0 {
		return json.Unmarshal(r.raw, v)
	}
	if r.Response == nil {
		return ErrEmptyResponse
	}
	data, err := json.Marshal(r.Response)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// DecodeResponse decodes a Result payload into a value of type T.
func DecodeResponse[T any](r *Result) (T, error) {
	var out T
	err := r.Decode(&out)
	return out, err
}

// Option configures a Client at construction time.
type Option func(*Client)

// Content type values recognized by the default request interceptor.
const (
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"

	headerContentType = "Content-Type"

	defaultCredentials = "same-origin"
)
