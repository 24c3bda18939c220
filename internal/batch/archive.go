package batch

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/huugof/meme-factory/internal/render"
)

// DefaultArchiveName is the suggested name for -zip output.
const DefaultArchiveName = "memes_factory.zip"

func writeArchive(ctx context.Context, cfg Config, r *render.Renderer, base *image.RGBA, items []*item) (*Result, error) {
	renderAll(ctx, cfg, r, base, items)
	result := &Result{Total: len(items)}
	collect(cfg, r, items, result)

	if err := os.MkdirAll(filepath.Dir(cfg.Archive), 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(cfg.Archive), ".tmp-*.zip")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	now := time.Now()
	add := func(name string, data []byte) error {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	for _, it := range items {
		if it.err != nil {
			continue
		}
		if err := add(it.filename, it.data); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("archive %s: %w", it.filename, err)
		}
	}
	if cfg.Preview {
		page, err := buildPreview(items, result, cfg.PreviewLimit)
		if err != nil {
			tmp.Close()
			return nil, err
		}
		if err := add(previewName, []byte(page)); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("archive %s: %w", previewName, err)
		}
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("finish archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp.Name(), cfg.Archive); err != nil {
		return nil, err
	}
	cfg.Logger.Info("archive written", "path", cfg.Archive, "memes", result.Rendered, "failed", len(result.Failures))
	return result, nil
}
