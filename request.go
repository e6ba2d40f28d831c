package nextfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hemengke1997/next-fetch/internal/query"
)

// timestampKey is the query key used when RequestOptions.JoinTime is set.
const timestampKey = "_t"

// DefaultRequestInterceptor is the built-in request interceptor registered in
// the client's default Transform. It prefixes the URL, serializes Params into
// the query string for GET requests and Data into the request body otherwise,
// and strips Params/Data from the final options before the network call.
func DefaultRequestInterceptor(ctx context.Context, rawURL string, opts *Options) (string, *Options, error) {
	rawURL = applyURLPrefix(rawURL, opts.RequestOptions)

	method := methodOrDefault(opts.Method)
	if method == http.MethodGet {
		finalURL, err := buildGetURL(rawURL, opts)
		if err != nil {
			return rawURL, opts, err
		}
		rawURL = finalURL
	} else if err := buildBody(opts); err != nil {
		return rawURL, opts, err
	}

	opts.Params = nil
	opts.Data = nil
	return rawURL, opts, nil
}

func applyURLPrefix(rawURL string, ro *RequestOptions) string {
	if ro == nil || isAbsoluteURL(rawURL) {
		return rawURL
	}
	if ro.APIURL != "" {
		rawURL = ro.APIURL + rawURL
	}
	if ro.URLPrefix != "" {
		rawURL = ro.URLPrefix + rawURL
	}
	return rawURL
}

func isAbsoluteURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

func buildGetURL(rawURL string, opts *Options) (string, error) {
	switch params := opts.Params.(type) {
	case nil:
	case string:
		// Pre-built query strings are appended verbatim, before any
		// timestamp suffix.
		rawURL += params
	default:
		m, err := paramsToMap(params)
		if err != nil {
			return rawURL, err
		}
		if encoded := query.Encode(m); encoded != "" {
			rawURL = appendQuery(rawURL, encoded)
		}
	}

	if opts.RequestOptions != nil && opts.RequestOptions.JoinTime {
		stamp := timestampKey + "=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
		rawURL = appendQuery(rawURL, stamp)
	}
	return rawURL, nil
}

// appendQuery joins a query fragment onto url with "?" for the first
// fragment and "&" afterwards, so the final URL carries exactly one "?".
func appendQuery(rawURL, fragment string) string {
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + fragment
	}
	return rawURL + "?" + fragment
}

// buildBody serializes Data (or Params, when Data is absent) into opts.Body
// according to the declared Content-Type header.
func buildBody(opts *Options) error {
	data := opts.Data
	contentType := headerValue(opts.Headers, headerContentType)

	if data == nil {
		if opts.Params == nil {
			return nil
		}
		// Params on a non-GET request are used as the payload and
		// JSON-encoded regardless of the declared content type.
		body, err := json.Marshal(opts.Params)
		if err != nil {
			return fmt.Errorf("nextfetch: encode params: %w", err)
		}
		opts.Body = body
		return nil
	}

	switch {
	case strings.Contains(contentType, ContentTypeForm):
		m, err := paramsToMap(data)
		if err != nil {
			return err
		}
		opts.Body = []byte(query.EncodeForm(m))
	case strings.Contains(contentType, ContentTypeMultipart):
		m, err := paramsToMap(data)
		if err != nil {
			return err
		}
		body, boundary, err := encodeMultipart(m)
		if err != nil {
			return err
		}
		opts.Body = body
		if opts.Headers == nil {
			opts.Headers = map[string]string{}
		}
		opts.Headers[headerContentType] = boundary
	default:
		body, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("nextfetch: encode data: %w", err)
		}
		opts.Body = body
	}
	return nil
}

func encodeMultipart(data map[string]any) (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range data {
		if err := w.WriteField(k, fmt.Sprint(v)); err != nil {
			return nil, "", fmt.Errorf("nextfetch: encode multipart field %q: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func paramsToMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("nextfetch: unsupported params type %T", v)
	}
}

func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
