package domain

import (
	"context"
	"time"
)

// Bookmark marks an event a user wants to find again. Unique per (event, user).
// swagger:model Bookmark
type Bookmark struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkWithEvent bundles a bookmark with its event for list views.
type BookmarkWithEvent struct {
	Bookmark *Bookmark `json:"bookmark"`
	Event    *Event    `json:"event"`
}

// BookmarkRepository defines storage operations for bookmarks.
type BookmarkRepository interface {
	Create(ctx context.Context, b *Bookmark) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Bookmark, error)
	ListByUserID(ctx context.Context, userID string) ([]*BookmarkWithEvent, error)
	Delete(ctx context.Context, id string) error
}

// BookmarkService defines bookmark operations.
type BookmarkService interface {
	// ToggleBookmark adds a bookmark if absent and removes it if present,
	// returning whether the event is bookmarked afterwards.
	ToggleBookmark(ctx context.Context, eventID, userID string) (bool, error)
	ListMyBookmarks(ctx context.Context, userID string) ([]*BookmarkWithEvent, error)
}
