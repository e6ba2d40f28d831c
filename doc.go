// Package nextfetch provides a configurable request client built atop a
// native fetch primitive, shaping inputs and outputs around the network call:
//
//   - Default options deep-merged with per-call overrides
//   - Four interceptor pipelines (request, response, error, internal-error)
//     concatenated per call: instance-registered, transform-declared, call-site
//   - A default request interceptor handling URL prefixing, query-string
//     serialization and body encoding by declared Content-Type
//   - A pluggable response transform producing a uniform Result shape
//   - Optional in-flight coalescing of identical requests
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - No transport opinions: TCP/TLS/HTTP belong to the underlying Fetcher
//   - Safe concurrent use of a single *Client instance
//   - Extensibility via user supplied interceptors & pluggable logger / metrics
//
// Typical usage:
//
//	client := nextfetch.New(
//	    nextfetch.WithURLPrefix("https://api.example.com"),
//	    nextfetch.WithJoinTime(),
//	    nextfetch.WithRequestInterceptor(nextfetch.NewTraceIDInterceptor("")),
//	)
//	result, err := client.Fetch(ctx, "/users", &nextfetch.Options{
//	    Params: map[string]any{"page": 1},
//	}, nil)
//
// HTTP-level failures never surface as errors: a non-2xx response runs the
// error interceptor chain and returns a Result with Success false. Network
// and interceptor failures run the internal-error chain and are returned as
// errors; interceptors may replace the error but not suppress it. The library
// implements no retries, timeouts or caching – callers compose those through
// interceptors or the context.
package nextfetch
