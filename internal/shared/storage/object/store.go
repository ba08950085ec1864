package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary
// objects, such as uploaded profile pictures.
type ObjectStore interface {
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (rc io.ReadCloser, mimeType string, err error)
}
