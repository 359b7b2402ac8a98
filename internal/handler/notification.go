package handler

import (
    "errors"
    "net/http"
    "strconv"
    "sync"

    "github.com/iliyamo/restaurant-table-booking/internal/repository"
    "github.com/labstack/echo/v4"
)

// NotificationHandler serves the notification feed consumed by the
// client panel.  Reads are pure; the only mutations are read-flag
// flips scoped to the requesting user.  Notification rows themselves
// are created by the queue consumer, never over HTTP.
type NotificationHandler struct {
    NotificationRepo *repository.NotificationRepo
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
    if repo == nil {
        panic("nil repository passed to NewNotificationHandler")
    }
    return &NotificationHandler{NotificationRepo: repo}
}

const (
    defaultNotificationLimit = 50
    maxNotificationLimit     = 100
)

// GetNotifications handles GET /v1/bookings/notifications.  It
// returns up to `limit` enriched notifications (newest first) plus
// the unread and total counts for the user.  The list and the two
// counts have no ordering dependency, so the three queries run
// concurrently; if any of them fails the whole request fails.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    limit := defaultNotificationLimit
    if raw := c.QueryParam("limit"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n <= 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
        }
        if n > maxNotificationLimit {
            n = maxNotificationLimit
        }
        limit = n
    }
    unreadOnly := c.QueryParam("unread_only") == "true"

    ctx := c.Request().Context()
    var (
        wg          sync.WaitGroup
        items       []repository.EnrichedNotification
        unread      int
        total       int
        listErr     error
        unreadErr   error
        totalErr    error
    )
    wg.Add(3)
    go func() {
        defer wg.Done()
        items, listErr = h.NotificationRepo.ListByUser(ctx, userID, limit, unreadOnly)
    }()
    go func() {
        defer wg.Done()
        unread, unreadErr = h.NotificationRepo.CountUnread(ctx, userID)
    }()
    go func() {
        defer wg.Done()
        total, totalErr = h.NotificationRepo.CountTotal(ctx, userID)
    }()
    wg.Wait()

    if listErr != nil || unreadErr != nil || totalErr != nil {
        c.Logger().Errorf("get notifications failed (user=%d): list=%v unread=%v total=%v",
            userID, listErr, unreadErr, totalErr)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "notifications": items,
        "unread_count":  unread,
        "total_count":   total,
    })
}

// GetUnreadCount handles GET /v1/bookings/notifications/unread-count.
// It is the legacy endpoint predating the consolidated feed: callers
// that migrated to GetNotifications get the same number there, but
// this route must stay callable indefinitely.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    count, err := h.NotificationRepo.CountUnread(c.Request().Context(), userID)
    if err != nil {
        c.Logger().Errorf("get unread count failed (user=%d): %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load unread count"})
    }
    return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkRead handles PUT /v1/bookings/notifications/:id/read.  It flips
// the read flag of a single notification owned by the user.  Marking
// a notification that is already read is not an error.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || notificationID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
    }
    if err := h.NotificationRepo.MarkRead(c.Request().Context(), notificationID, userID); err != nil {
        if errors.Is(err, repository.ErrNotificationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
        }
        c.Logger().Errorf("mark read failed (user=%d notification=%d): %v", userID, notificationID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark notification read"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "notification marked as read"})
}

// MarkAllRead handles PUT /v1/bookings/notifications/mark-all-read.
// It flips every unread notification of the user; having nothing
// unread is a no-op, not an error.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    if err := h.NotificationRepo.MarkAllRead(c.Request().Context(), userID); err != nil {
        c.Logger().Errorf("mark all read failed (user=%d): %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark notifications read"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "all notifications marked as read"})
}
