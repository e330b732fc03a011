package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// WriteBundle zips the named artifacts to w in the given order. A nil names
// slice bundles everything in store. Missing artifacts fail the bundle.
func WriteBundle(ctx context.Context, store Storage, names []string, w io.Writer) error {
	if names == nil {
		var err error
		if names, err = store.List(ctx); err != nil {
			return err
		}
	}

	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}

		data, err := store.Load(ctx, name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to bundle %s: %w", name, err)
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish bundle: %w", err)
	}
	return nil
}
