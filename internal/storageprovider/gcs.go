package storageprovider

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/getsentry/stylestats/internal/storageutil"
)

// Gcs stores traces and results in a Cloud Storage bucket.
type Gcs struct {
	BucketHandle *storage.BucketHandle
}

// Put returns a writer creating the object name. The object is only visible
// once the writer is closed.
func (g *Gcs) Put(ctx context.Context, name string) (io.WriteCloser, error) {
	w := g.BucketHandle.Object(name).NewWriter(ctx)
	w.ContentType = storageutil.ContentType(name)
	return w, nil
}

// Get opens the object name, or returns storageutil.ErrObjectNotFound.
func (g *Gcs) Get(ctx context.Context, name string) (storageutil.ReadSizeCloser, error) {
	rc, err := g.BucketHandle.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, storageutil.ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return rc, nil
}
