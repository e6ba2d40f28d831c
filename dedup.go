package nextfetch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"hash/fnv"
	"net/http"
	"sync"
	"time"
)

// DeduplicationEntry represents an in-flight call shared between callers.
type DeduplicationEntry struct {
	result  *Result
	err     error
	done    chan struct{}
	mu      sync.Mutex
	waiters int
}

// DeduplicationTracker tracks in-flight calls to coalesce duplicates. The
// tracker is the only structure shared across concurrent Fetch invocations.
type DeduplicationTracker struct {
	mu      sync.RWMutex
	entries map[string]*DeduplicationEntry
}

// NewDeduplicationTracker returns an in-memory de-duplication tracker.
func NewDeduplicationTracker() *DeduplicationTracker {
	return &DeduplicationTracker{
		entries: make(map[string]*DeduplicationEntry),
	}
}

// GetOrCreateEntry returns an existing entry (not owner) or creates a new one (owner=true).
func (dt *DeduplicationTracker) GetOrCreateEntry(key string) (*DeduplicationEntry, bool) {
	dt.mu.Lock()
	defer dt.mu.Unlock()

	if entry, exists := dt.entries[key]; exists {
		entry.mu.Lock()
		entry.waiters++
		entry.mu.Unlock()
		return entry, false
	}

	entry := &DeduplicationEntry{
		done:    make(chan struct{}),
		waiters: 1,
	}
	dt.entries[key] = entry
	return entry, true
}

// Complete finalizes an entry and releases waiters. The entry lingers briefly
// so stragglers that raced the completion still observe the shared result.
func (dt *DeduplicationTracker) Complete(key string, result *Result, err error) {
	dt.mu.Lock()
	entry, exists := dt.entries[key]
	dt.mu.Unlock()

	if !exists {
		return
	}

	entry.mu.Lock()
	entry.result = result
	entry.err = err
	close(entry.done)
	entry.mu.Unlock()

	time.AfterFunc(100*time.Millisecond, func() {
		dt.mu.Lock()
		delete(dt.entries, key)
		dt.mu.Unlock()
	})
}

// Wait blocks until the owning call completes or context cancels.
func (entry *DeduplicationEntry) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-entry.done:
		entry.mu.Lock()
		result := entry.result
		err := entry.err
		entry.mu.Unlock()
		return result, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DeduplicationKeyFunc builds a key identifying identical in-flight calls
// from the final method, URL and encoded body.
type DeduplicationKeyFunc func(method, url string, body []byte) string

// DefaultDeduplicationKeyFunc builds a key from method + URL (+ body hash for
// mutating verbs).
func DefaultDeduplicationKeyFunc(method, url string, body []byte) string {
	h := fnv.New64a()
	h.Write([]byte(method))
	h.Write([]byte(url))

	if len(body) > 0 && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		sum := sha256.Sum256(body)
		h.Write(sum[:])
	}

	return fmt.Sprintf("%x", h.Sum64())
}

// DeduplicationCondition decides whether a call is eligible for coalescing.
type DeduplicationCondition func(method, url string) bool

// DefaultDeduplicationCondition enables coalescing for safe idempotent methods.
func DefaultDeduplicationCondition(method, url string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
