package nextfetch

import (
	"net/http"

	"github.com/knadh/koanf/maps"
)

// mergeOptions layers per-call values over the client defaults and returns a
// fresh Options; neither input is mutated. The merge policy is explicit per
// field rather than generic deep-merge-everything:
//
//   - Method, Credentials, Mode: overwrite when the override value is set.
//   - Headers: merged key-by-key, override keys win.
//   - Params, Data: overwrite when non-nil; Body overwrites when non-empty.
//   - RequestOptions: merged field-by-field; string fields overwrite when
//     set, boolean flags combine with OR (a per-call true enables).
//   - Transform: interceptor lists concatenate (defaults first, per-call
//     appended, never deduplicated); TransformResponse overwrites when set.
//   - Extra: recursive map merge, override keys win at every level.
func mergeOptions(base, override *Options) *Options {
	merged := base.clone()
	if override == nil {
		return merged
	}

	if override.Method != "" {
		merged.Method = override.Method
	}
	if override.Credentials != "" {
		merged.Credentials = override.Credentials
	}
	if override.Mode != "" {
		merged.Mode = override.Mode
	}
	for k, v := range override.Headers {
		if merged.Headers == nil {
			merged.Headers = make(map[string]string, len(override.Headers))
		}
		merged.Headers[k] = v
	}
	if override.Params != nil {
		merged.Params = override.Params
	}
	if override.Data != nil {
		merged.Data = override.Data
	}
	if len(override.Body) > 0 {
		merged.Body = append([]byte(nil), override.Body...)
	}

	merged.RequestOptions = mergeRequestOptions(merged.RequestOptions, override.RequestOptions)
	merged.Transform = mergeTransform(merged.Transform, override.Transform)
	merged.Extra = mergeExtra(merged.Extra, override.Extra)

	return merged
}

func mergeRequestOptions(base, override *RequestOptions) *RequestOptions {
	if base == nil {
		base = &RequestOptions{}
	}
	merged := *base
	if override == nil {
		return &merged
	}
	if override.APIURL != "" {
		merged.APIURL = override.APIURL
	}
	if override.URLPrefix != "" {
		merged.URLPrefix = override.URLPrefix
	}
	merged.JoinTime = merged.JoinTime || override.JoinTime
	merged.IgnoreRepeatRequest = merged.IgnoreRepeatRequest || override.IgnoreRepeatRequest
	return &merged
}

func mergeTransform(base, override *Transform) *Transform {
	if base == nil {
		base = &Transform{}
	}
	merged := &Transform{
		Request:           append([]RequestInterceptor(nil), base.Request...),
		Response:          append([]ResponseInterceptor(nil), base.Response...),
		Error:             append([]ErrorInterceptor(nil), base.Error...),
		InternalError:     append([]InternalErrorInterceptor(nil), base.InternalError...),
		TransformResponse: base.TransformResponse,
	}
	if override == nil {
		return merged
	}
	merged.Request = append(merged.Request, override.Request...)
	merged.Response = append(merged.Response, override.Response...)
	merged.Error = append(merged.Error, override.Error...)
	merged.InternalError = append(merged.InternalError, override.InternalError...)
	if override.TransformResponse != nil {
		merged.TransformResponse = override.TransformResponse
	}
	return merged
}

// mergeExtra deep-merges nested maps; override keys win at every level.
func mergeExtra(base, override map[string]any) map[string]any {
	if base == nil && override == nil {
		return nil
	}
	merged := map[string]any{}
	if base != nil {
		merged = maps.Copy(base)
	}
	if override != nil {
		maps.Merge(maps.Copy(override), merged)
	}
	return merged
}

// clone returns a deep enough copy for merge to build on without aliasing
// instance state.
func (o *Options) clone() *Options {
	if o == nil {
		return &Options{}
	}
	cloned := *o
	if o.Headers != nil {
		cloned.Headers = make(map[string]string, len(o.Headers))
		for k, v := range o.Headers {
			cloned.Headers[k] = v
		}
	}
	if o.Body != nil {
		cloned.Body = append([]byte(nil), o.Body...)
	}
	if o.RequestOptions != nil {
		ro := *o.RequestOptions
		cloned.RequestOptions = &ro
	}
	if o.Transform != nil {
		cloned.Transform = &Transform{
			Request:           append([]RequestInterceptor(nil), o.Transform.Request...),
			Response:          append([]ResponseInterceptor(nil), o.Transform.Response...),
			Error:             append([]ErrorInterceptor(nil), o.Transform.Error...),
			InternalError:     append([]InternalErrorInterceptor(nil), o.Transform.InternalError...),
			TransformResponse: o.Transform.TransformResponse,
		}
	}
	if o.Extra != nil {
		cloned.Extra = maps.Copy(o.Extra)
	}
	return &cloned
}

// methodOrDefault normalizes an empty method to GET.
func methodOrDefault(method string) string {
	if method == "" {
		return http.MethodGet
	}
	return method
}
