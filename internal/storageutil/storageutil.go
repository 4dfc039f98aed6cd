package storageutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/stylestats/internal/traceevent"
	gojson "github.com/goccy/go-json"
	"github.com/pierrec/lz4/v4"
)

// ErrObjectNotFound indicates an object was not found.
var ErrObjectNotFound = errors.New("object not found")

type ReadSizeCloser interface {
	io.Reader
	io.Closer
	Size() int64
}

// ObjectHandler provides common interface for multiple storage providers.
type ObjectHandler interface {
	// Put writes a file to the storage provider with name being the path.
	Put(ctx context.Context, name string) (io.WriteCloser, error)
	// Get reads a file from the storage provider with name being the path.
	// If a key was not found, it will return ErrObjectNotFound.
	Get(ctx context.Context, name string) (ReadSizeCloser, error)
}

// CompressedWrite compresses and writes data to the storage provider.
func CompressedWrite(ctx context.Context, b ObjectHandler, objectName string, d interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ow, err := b.Put(ctx, objectName)
	if err != nil {
		return err
	}
	zw := lz4.NewWriter(ow)
	_ = zw.Apply(lz4.CompressionLevelOption(lz4.Level9))
	jw := gojson.NewEncoder(zw)
	err = jw.Encode(d)
	if err != nil {
		return err
	}
	err = zw.Close()
	if err != nil {
		return err
	}
	err = ow.Close()
	if err != nil {
		return err
	}
	return nil
}

// UnmarshalCompressed reads compressed JSON data from the storage provider
// and unmarshals it.
func UnmarshalCompressed(ctx context.Context, b ObjectHandler, objectName string, d interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	or, err := b.Get(ctx, objectName)
	if err != nil {
		return err
	}
	defer or.Close()
	zr := lz4.NewReader(or)
	err = gojson.NewDecoder(zr).Decode(d)
	if err != nil {
		return err
	}
	return nil
}

// ReadTrace loads a trace document. Objects with a .lz4 extension are
// decompressed first.
func ReadTrace(ctx context.Context, b ObjectHandler, objectName string) (traceevent.Trace, error) {
	or, err := b.Get(ctx, objectName)
	if err != nil {
		return traceevent.Trace{}, err
	}
	defer or.Close()
	var r io.Reader = or
	if strings.HasSuffix(objectName, ".lz4") {
		r = lz4.NewReader(or)
	}
	return traceevent.Load(r)
}

// ContentType returns the content type stored along with the object name.
func ContentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".lz4"):
		return "application/x-lz4"
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	}
	return "application/octet-stream"
}

// ResultPath is where the tables of a run are stored.
func ResultPath(id string) string {
	return fmt.Sprintf("results/%s.json.lz4", id)
}

// SplitLocation splits a trace location into the URL of its bucket and the
// object key. Plain paths are mapped to a local filesystem bucket.
func SplitLocation(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		// Not a URL, or a Windows drive letter.
		abs, err := filepath.Abs(location)
		if err != nil {
			return "", "", err
		}
		dir := filepath.ToSlash(filepath.Dir(abs))
		if !strings.HasPrefix(dir, "/") {
			dir = "/" + dir
		}
		return "file://" + dir, filepath.Base(abs), nil
	}
	if u.Scheme == "file" {
		dir, key := path.Split(u.Path)
		if key == "" {
			return "", "", fmt.Errorf("storageutil: %s doesn't name an object", location)
		}
		return "file://" + strings.TrimSuffix(dir, "/"), key, nil
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("storageutil: %s doesn't name an object", location)
	}
	return u.Scheme + "://" + u.Host, key, nil
}
