package client

import (
    "context"
    "fmt"
    "sync"
    "time"
)

// NotificationAPI is the slice of Client the panel needs. Tests
// substitute a fake to script failures.
type NotificationAPI interface {
    Notifications(ctx context.Context, limit int, unreadOnly bool) (*Feed, error)
    MarkRead(ctx context.Context, id uint64) error
    MarkAllRead(ctx context.Context) error
}

// Panel is the state machine behind the notification dropdown. It is
// either closed or open; opening triggers a refresh, and while the
// panel is mounted a fixed-interval poll keeps the badge current.
// Mutations apply optimistically: the local feed is updated first and
// restored verbatim from a snapshot when the server call fails.
// Rendering is left entirely to the embedding UI; the panel only owns
// state transitions and data flow.
type Panel struct {
    api   NotificationAPI
    cache *RequestCache
    limit int

    // mu guards open and feed; the poll goroutine shares them with
    // the caller.
    mu   sync.Mutex
    open bool
    feed *Feed

    stop chan struct{}
}

// NewPanel builds a closed panel fetching up to limit notifications.
func NewPanel(api NotificationAPI, limit int) *Panel {
    if limit <= 0 {
        limit = 50
    }
    return &Panel{
        api:   api,
        cache: NewRequestCache(),
        limit: limit,
    }
}

// feedKey names the cached feed request for this panel's parameters.
func (p *Panel) feedKey() string {
    return fmt.Sprintf("feed:limit=%d:unread=false", p.limit)
}

// IsOpen reports whether the dropdown is open.
func (p *Panel) IsOpen() bool {
    p.mu.Lock()
    defer p.mu.Unlock()
    return p.open
}

// Toggle flips the open/closed state. The transition to open triggers
// a refresh so the user never looks at a stale list; closing changes
// no data.
func (p *Panel) Toggle(ctx context.Context) (bool, error) {
    p.mu.Lock()
    p.open = !p.open
    nowOpen := p.open
    p.mu.Unlock()

    if nowOpen {
        if err := p.Refresh(ctx); err != nil {
            return true, err
        }
    }
    return nowOpen, nil
}

// Start launches the poll loop. Every interval the panel refreshes,
// open or not, so the unread badge stays current while the widget is
// mounted. Stop (or ctx cancellation) ends the loop.
func (p *Panel) Start(ctx context.Context, interval time.Duration) {
    p.mu.Lock()
    if p.stop != nil {
        p.mu.Unlock()
        return // already polling
    }
    stop := make(chan struct{})
    p.stop = stop
    p.mu.Unlock()

    go func() {
        t := time.NewTicker(interval)
        defer t.Stop()
        for {
            select {
            case <-t.C:
                _ = p.Refresh(ctx) // poll failures keep last-known-good state
            case <-stop:
                return
            case <-ctx.Done():
                return
            }
        }
    }()
}

// Stop ends the poll loop started by Start.
func (p *Panel) Stop() {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.stop != nil {
        close(p.stop)
        p.stop = nil
    }
}

// Refresh invalidates the cached feed and fetches a fresh one.
// Concurrent refresh triggers (interval tick racing a click) collapse
// into one network call through the request cache. On failure the
// previous feed stays in place.
func (p *Panel) Refresh(ctx context.Context) error {
    p.cache.InvalidatePrefix("feed:")
    feed, err := p.cache.Do(p.feedKey(), func() (*Feed, error) {
        return p.api.Notifications(ctx, p.limit, false)
    })
    if err != nil {
        return err
    }
    p.mu.Lock()
    p.feed = feed
    p.mu.Unlock()
    return nil
}

// Feed returns a copy of the current feed, or an empty feed before
// the first successful refresh.
func (p *Panel) Feed() Feed {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.feed == nil {
        return Feed{Notifications: []FeedItem{}}
    }
    return cloneFeed(p.feed)
}

// UnreadCount returns the badge number from the last refresh.
func (p *Panel) UnreadCount() int {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.feed == nil {
        return 0
    }
    return p.feed.UnreadCount
}

// MarkRead optimistically marks one notification read. The local feed
// is patched before the network call; if the call fails the
// pre-mutation snapshot is restored verbatim and the error returned.
func (p *Panel) MarkRead(ctx context.Context, id uint64) error {
    p.mu.Lock()
    if p.feed == nil {
        p.mu.Unlock()
        return p.api.MarkRead(ctx, id)
    }
    snapshot := cloneFeed(p.feed)
    for i := range p.feed.Notifications {
        n := &p.feed.Notifications[i]
        if n.ID == id && !n.IsRead {
            n.IsRead = true
            if p.feed.UnreadCount > 0 {
                p.feed.UnreadCount--
            }
        }
    }
    p.mu.Unlock()

    if err := p.api.MarkRead(ctx, id); err != nil {
        p.mu.Lock()
        p.feed = &snapshot
        p.mu.Unlock()
        return err
    }
    p.cache.InvalidatePrefix("feed:")
    return nil
}

// MarkAllRead optimistically clears the unread state of every
// notification, with the same snapshot-rollback contract as MarkRead.
func (p *Panel) MarkAllRead(ctx context.Context) error {
    p.mu.Lock()
    if p.feed == nil {
        p.mu.Unlock()
        return p.api.MarkAllRead(ctx)
    }
    snapshot := cloneFeed(p.feed)
    for i := range p.feed.Notifications {
        p.feed.Notifications[i].IsRead = true
    }
    p.feed.UnreadCount = 0
    p.mu.Unlock()

    if err := p.api.MarkAllRead(ctx); err != nil {
        p.mu.Lock()
        p.feed = &snapshot
        p.mu.Unlock()
        return err
    }
    p.cache.InvalidatePrefix("feed:")
    return nil
}

// cloneFeed deep-copies a feed so rollback restores exactly what was
// displayed before the optimistic patch.
func cloneFeed(f *Feed) Feed {
    out := Feed{
        UnreadCount:   f.UnreadCount,
        TotalCount:    f.TotalCount,
        Notifications: make([]FeedItem, len(f.Notifications)),
    }
    copy(out.Notifications, f.Notifications)
    return out
}
