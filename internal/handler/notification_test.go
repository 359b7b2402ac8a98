package handler

import (
    "context"
    "database/sql"
    "fmt"
    "net/http"
    "testing"
    "time"

    "github.com/iliyamo/restaurant-table-booking/internal/repository"
)

type feedResponse struct {
    Notifications []struct {
        ID     uint64 `json:"id"`
        Title  string `json:"title"`
        IsRead bool   `json:"is_read"`
    } `json:"notifications"`
    UnreadCount int `json:"unread_count"`
    TotalCount  int `json:"total_count"`
}

// seedFeed inserts three unread and two read notifications for user 7.
func seedFeed(t *testing.T, db *sql.DB) {
    t.Helper()
    ctx := context.Background()
    repo := repository.NewNotificationRepo(db)
    base := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)

    rows := []struct {
        title string
        read  bool
    }{
        {"unread one", false},
        {"unread two", false},
        {"unread three", false},
        {"read one", true},
        {"read two", true},
    }
    for i, row := range rows {
        n := &repository.NotificationRecord{
            UserID:  7,
            Title:   row.title,
            Message: "message",
            Type:    "INFO",
            IsRead:  row.read,
        }
        if err := repo.Create(ctx, n, base.Add(time.Duration(i)*time.Minute)); err != nil {
            t.Fatalf("seed %q: %v", row.title, err)
        }
    }
}

func TestGetNotificationsFeed(t *testing.T) {
    db := newTestDB(t)
    seedFeed(t, db)
    e := newTestServer(db, nil)

    var feed feedResponse
    rec := doRequest(t, e, http.MethodGet, "/v1/bookings/notifications", 7, "", &feed)
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
    }
    if len(feed.Notifications) != 5 {
        t.Errorf("items = %d, want 5", len(feed.Notifications))
    }
    if feed.UnreadCount != 3 || feed.TotalCount != 5 {
        t.Errorf("counts = %d/%d, want 3/5", feed.UnreadCount, feed.TotalCount)
    }
    // newest first
    if feed.Notifications[0].Title != "read two" {
        t.Errorf("first item = %q, want read two", feed.Notifications[0].Title)
    }
}

func TestGetNotificationsLimitIndependentCounts(t *testing.T) {
    db := newTestDB(t)
    seedFeed(t, db)
    e := newTestServer(db, nil)

    var feed feedResponse
    rec := doRequest(t, e, http.MethodGet, "/v1/bookings/notifications?limit=2", 7, "", &feed)
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d", rec.Code)
    }
    if len(feed.Notifications) != 2 {
        t.Errorf("items = %d, want 2", len(feed.Notifications))
    }
    // the counts ignore the page size
    if feed.UnreadCount != 3 || feed.TotalCount != 5 {
        t.Errorf("counts = %d/%d, want 3/5", feed.UnreadCount, feed.TotalCount)
    }
}

func TestGetNotificationsUnreadOnly(t *testing.T) {
    db := newTestDB(t)
    seedFeed(t, db)
    e := newTestServer(db, nil)

    var feed feedResponse
    rec := doRequest(t, e, http.MethodGet, "/v1/bookings/notifications?unread_only=true", 7, "", &feed)
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d", rec.Code)
    }
    if len(feed.Notifications) != 3 {
        t.Fatalf("items = %d, want 3", len(feed.Notifications))
    }
    for _, n := range feed.Notifications {
        if n.IsRead {
            t.Errorf("read item %q in unread_only feed", n.Title)
        }
    }
    // counts are unchanged by the filter
    if feed.UnreadCount != 3 || feed.TotalCount != 5 {
        t.Errorf("counts = %d/%d, want 3/5", feed.UnreadCount, feed.TotalCount)
    }
}

func TestGetNotificationsInvalidLimit(t *testing.T) {
    db := newTestDB(t)
    e := newTestServer(db, nil)

    for _, limit := range []string{"abc", "0", "-5"} {
        rec := doRequest(t, e, http.MethodGet, "/v1/bookings/notifications?limit="+limit, 7, "", nil)
        if rec.Code != http.StatusBadRequest {
            t.Errorf("limit=%s: status = %d, want 400", limit, rec.Code)
        }
    }

    // oversized limits are clamped, not rejected
    rec := doRequest(t, e, http.MethodGet, "/v1/bookings/notifications?limit=500", 7, "", nil)
    if rec.Code != http.StatusOK {
        t.Errorf("limit=500: status = %d, want 200", rec.Code)
    }
}

func TestLegacyUnreadCount(t *testing.T) {
    db := newTestDB(t)
    seedFeed(t, db)
    e := newTestServer(db, nil)

    var resp struct {
        Count int `json:"count"`
    }
    rec := doRequest(t, e, http.MethodGet, "/v1/bookings/notifications/unread-count", 7, "", &resp)
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d", rec.Code)
    }
    if resp.Count != 3 {
        t.Errorf("count = %d, want 3", resp.Count)
    }
}

func TestMarkReadEndpoint(t *testing.T) {
    db := newTestDB(t)
    seedFeed(t, db)
    e := newTestServer(db, nil)

    var feed feedResponse
    doRequest(t, e, http.MethodGet, "/v1/bookings/notifications?unread_only=true", 7, "", &feed)
    target := feed.Notifications[0].ID

    path := fmt.Sprintf("/v1/bookings/notifications/%d/read", target)
    if rec := doRequest(t, e, http.MethodPut, path, 7, "", nil); rec.Code != http.StatusOK {
        t.Fatalf("mark read: status = %d", rec.Code)
    }
    // idempotent
    if rec := doRequest(t, e, http.MethodPut, path, 7, "", nil); rec.Code != http.StatusOK {
        t.Fatalf("repeat mark read: status = %d", rec.Code)
    }

    var after feedResponse
    doRequest(t, e, http.MethodGet, "/v1/bookings/notifications", 7, "", &after)
    if after.UnreadCount != 2 {
        t.Errorf("unread after mark = %d, want 2", after.UnreadCount)
    }

    // not owned / missing → 404
    if rec := doRequest(t, e, http.MethodPut, path, 8, "", nil); rec.Code != http.StatusNotFound {
        t.Errorf("foreign mark read: status = %d", rec.Code)
    }
    if rec := doRequest(t, e, http.MethodPut, "/v1/bookings/notifications/9999/read", 7, "", nil); rec.Code != http.StatusNotFound {
        t.Errorf("missing mark read: status = %d", rec.Code)
    }
    if rec := doRequest(t, e, http.MethodPut, "/v1/bookings/notifications/abc/read", 7, "", nil); rec.Code != http.StatusBadRequest {
        t.Errorf("malformed id: status = %d", rec.Code)
    }
}

func TestMarkAllReadEndpoint(t *testing.T) {
    db := newTestDB(t)
    seedFeed(t, db)
    e := newTestServer(db, nil)

    if rec := doRequest(t, e, http.MethodPut, "/v1/bookings/notifications/mark-all-read", 7, "", nil); rec.Code != http.StatusOK {
        t.Fatalf("mark all: status = %d", rec.Code)
    }
    var feed feedResponse
    doRequest(t, e, http.MethodGet, "/v1/bookings/notifications", 7, "", &feed)
    if feed.UnreadCount != 0 {
        t.Errorf("unread = %d, want 0", feed.UnreadCount)
    }
    if feed.TotalCount != 5 {
        t.Errorf("total = %d, want 5 (mark-all-read must not delete)", feed.TotalCount)
    }
    // empty unread set: still 200
    if rec := doRequest(t, e, http.MethodPut, "/v1/bookings/notifications/mark-all-read", 7, "", nil); rec.Code != http.StatusOK {
        t.Fatalf("repeat mark all: status = %d", rec.Code)
    }
}

func TestNotificationRoutesRequireUser(t *testing.T) {
    db := newTestDB(t)
    e := newTestServer(db, nil)

    // no X-Test-User header → no user_id in context → 401
    if rec := doRequest(t, e, http.MethodGet, "/v1/bookings/notifications", 0, "", nil); rec.Code != http.StatusUnauthorized {
        t.Errorf("status = %d, want 401", rec.Code)
    }
}

// The literal /bookings/notifications segment must not be captured by
// the /bookings/:id parameter route.
func TestNotificationRoutePrecedence(t *testing.T) {
    db := newTestDB(t)
    seedFeed(t, db)
    e := newTestServer(db, nil)

    var feed feedResponse
    rec := doRequest(t, e, http.MethodGet, "/v1/bookings/notifications", 7, "", &feed)
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d", rec.Code)
    }
    if feed.TotalCount != 5 {
        t.Errorf("feed response not served; total = %d", feed.TotalCount)
    }
}
