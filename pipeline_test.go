package nextfetch

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func recordingInterceptor(order *[]string, name string) RequestInterceptor {
	return func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
		*order = append(*order, name)
		return url, opts, nil
	}
}

func TestRequestChainOrder(t *testing.T) {
	var order []string
	fetcher := &stubFetcher{body: `{}`}

	client := New(
		WithFetcher(fetcher.fetch),
		WithRequestInterceptor(recordingInterceptor(&order, "instance")),
	)

	_, err := client.Fetch(context.Background(), "http://example.com/x", &Options{
		Transform: &Transform{
			Request: []RequestInterceptor{recordingInterceptor(&order, "transform")},
		},
	}, &Interceptors{
		Request: []RequestInterceptor{recordingInterceptor(&order, "callsite")},
	})
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}

	want := []string{"instance", "transform", "callsite"}
	got := make([]string, 0, len(want))
	for _, name := range order {
		for _, w := range want {
			if name == w {
				got = append(got, name)
			}
		}
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestRequestChainThreadsOutputForward(t *testing.T) {
	fetcher := &stubFetcher{body: `{}`}
	client := New(
		WithFetcher(fetcher.fetch),
		WithRequestInterceptor(
			func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
				return url + "/a", opts, nil
			},
			func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
				if !strings.HasSuffix(url, "/a") {
					t.Errorf("Expected previous interceptor's URL, got %s", url)
				}
				return url + "/b", opts, nil
			},
		),
	)

	_, err := client.Fetch(context.Background(), "http://example.com/x", nil, nil)
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if fetcher.url != "http://example.com/x/a/b" {
		t.Errorf("Expected threaded URL, got %s", fetcher.url)
	}
}

func TestResponseChainOrderAndThreading(t *testing.T) {
	fetcher := &stubFetcher{body: `{}`}
	var seen []string
	client := New(
		WithFetcher(fetcher.fetch),
		WithResponseInterceptor(
			func(ctx context.Context, resp *http.Response) (*http.Response, error) {
				seen = append(seen, "first")
				resp.Header.Set("X-Seen", "first")
				return resp, nil
			},
			func(ctx context.Context, resp *http.Response) (*http.Response, error) {
				seen = append(seen, "second")
				if resp.Header.Get("X-Seen") != "first" {
					t.Error("Expected response from previous interceptor")
				}
				return resp, nil
			},
		),
	)

	_, err := client.Fetch(context.Background(), "http://example.com/x", nil, nil)
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "first" || seen[1] != "second" {
		t.Errorf("Expected response interceptors in order, got %v", seen)
	}
}

func TestChainsAreFreshPerCall(t *testing.T) {
	fetcher := &stubFetcher{body: `{}`}
	client := New(WithFetcher(fetcher.fetch))

	calls := 0
	callsite := &Interceptors{
		Request: []RequestInterceptor{
			func(ctx context.Context, url string, opts *Options) (string, *Options, error) {
				calls++
				return url, opts, nil
			},
		},
	}

	if _, err := client.Fetch(context.Background(), "http://example.com/x", nil, callsite); err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if _, err := client.Fetch(context.Background(), "http://example.com/x", nil, nil); err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}

	if calls != 1 {
		t.Errorf("Expected call-site interceptor to run once, got %d", calls)
	}
	if len(client.requestInterceptors) != 0 {
		t.Errorf("Expected instance lists untouched by call-site registration, got %d", len(client.requestInterceptors))
	}
}

func TestInternalErrorChainNilKeepsPrevious(t *testing.T) {
	client := New()
	base := &ClientError{Type: ErrorTypeNetwork, Message: "network request failed"}

	final := client.runInternalErrorChain(context.Background(), base,
		[]InternalErrorInterceptor{
			func(ctx context.Context, err error) error { return nil },
		})

	if final != error(base) {
		t.Errorf("Expected original error kept on nil return, got %v", final)
	}
}
