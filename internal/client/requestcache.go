package client

import "sync"

// cacheEntry is one fetch, in flight or finished. done is closed when
// the result fields become valid.
type cacheEntry struct {
    done chan struct{}
    feed *Feed
    err  error
}

// RequestCache deduplicates identical feed fetches. Callers that ask
// for the same key while a fetch is in flight join that fetch instead
// of issuing their own; callers that arrive after completion get the
// cached result until the key is invalidated. This is what keeps a
// poll tick, a panel open and a manual refresh from turning into
// three network calls.
type RequestCache struct {
    mu      sync.Mutex
    entries map[string]*cacheEntry
}

// NewRequestCache returns an empty cache.
func NewRequestCache() *RequestCache {
    return &RequestCache{entries: make(map[string]*cacheEntry)}
}

// Do returns the feed for key, running fetch only when no entry
// exists yet. Concurrent callers with the same key block on the
// single in-flight fetch and all receive its result. A failed fetch
// is removed so the next call retries instead of caching the error
// forever.
func (rc *RequestCache) Do(key string, fetch func() (*Feed, error)) (*Feed, error) {
    rc.mu.Lock()
    if e, ok := rc.entries[key]; ok {
        rc.mu.Unlock()
        <-e.done
        return e.feed, e.err
    }
    e := &cacheEntry{done: make(chan struct{})}
    rc.entries[key] = e
    rc.mu.Unlock()

    e.feed, e.err = fetch()
    close(e.done)

    if e.err != nil {
        rc.mu.Lock()
        if rc.entries[key] == e {
            delete(rc.entries, key)
        }
        rc.mu.Unlock()
    }
    return e.feed, e.err
}

// InvalidatePrefix drops completed entries whose key starts with
// prefix. In-flight entries are left alone; their joiners are already
// committed to that result.
func (rc *RequestCache) InvalidatePrefix(prefix string) {
    rc.mu.Lock()
    defer rc.mu.Unlock()
    for k, e := range rc.entries {
        if len(k) < len(prefix) || k[:len(prefix)] != prefix {
            continue
        }
        select {
        case <-e.done:
            delete(rc.entries, k)
        default:
            // still in flight
        }
    }
}
