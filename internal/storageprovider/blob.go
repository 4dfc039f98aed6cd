package storageprovider

import (
	"context"
	"io"

	"github.com/getsentry/stylestats/internal/storageutil"
	"github.com/getsentry/stylestats/internal/traceevent"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Blob implements storageutil.ObjectHandler on top of any Go CDK bucket
// (file://, mem://, gs://, s3://...).
type Blob struct {
	Bucket *blob.Bucket
}

// OpenBlob opens the bucket at bucketURL. The driver for its scheme must be
// registered by the caller.
func OpenBlob(ctx context.Context, bucketURL string) (*Blob, error) {
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &Blob{Bucket: b}, nil
}

// Put writes a file to the storage provider with name being the path.
func (b *Blob) Put(ctx context.Context, name string) (io.WriteCloser, error) {
	return b.Bucket.NewWriter(ctx, name, &blob.WriterOptions{
		ContentType: storageutil.ContentType(name),
	})
}

// Get reads a file from the storage provider with name being the path.
// If a key was not found, it will return ErrObjectNotFound.
func (b *Blob) Get(ctx context.Context, name string) (storageutil.ReadSizeCloser, error) {
	r, err := b.Bucket.NewReader(ctx, name, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, storageutil.ErrObjectNotFound
		}
		return nil, err
	}
	return r, nil
}

func (b *Blob) Close() error {
	return b.Bucket.Close()
}

// ReadTrace loads the trace at location, a bucket URL or a local path.
func ReadTrace(ctx context.Context, location string) (traceevent.Trace, error) {
	bucketURL, key, err := storageutil.SplitLocation(location)
	if err != nil {
		return traceevent.Trace{}, err
	}
	b, err := OpenBlob(ctx, bucketURL)
	if err != nil {
		return traceevent.Trace{}, err
	}
	defer b.Close()
	return storageutil.ReadTrace(ctx, b, key)
}
