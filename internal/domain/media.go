package domain

import (
	"context"
	"io"
)

// FileUpload is an inbound file handed from the transport layer to a service.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// MediaStore stores and releases media objects (infrastructure port).
// Delete is best-effort from the caller's point of view: services log delete
// failures and continue, since orphaned media never blocks a primary operation.
type MediaStore interface {
	Upload(ctx context.Context, folder string, file *FileUpload) (*Media, error)
	Delete(ctx context.Context, publicID string) error
}
