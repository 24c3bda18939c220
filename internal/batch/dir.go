package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/huugof/meme-factory/internal/manifest"
	"github.com/huugof/meme-factory/internal/render"
	"github.com/huugof/meme-factory/internal/util"
)

const manifestName = "manifest.json"

func writeDir(ctx context.Context, cfg Config, r *render.Renderer, base *image.RGBA, items []*item) (*Result, error) {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(cfg.OutDir, manifestName)
	old, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	settings := settingsHash(r, cfg)
	source := util.HashImage(base)
	prev := old
	if cfg.Force || prev == nil || prev.RenderVersion != renderVersion || prev.SettingsHash != settings || prev.SourceHash != source {
		prev = nil
	}

	for _, it := range items {
		it.hash = util.HashStrings(renderVersion, settings, source, it.caption)
		if prev == nil {
			continue
		}
		if entry, ok := prev.Memes[it.filename]; ok && entry.Hash == it.hash && fileExists(filepath.Join(cfg.OutDir, it.filename)) {
			it.skip = true
		}
	}

	renderAll(ctx, cfg, r, base, items)

	next := &manifest.Manifest{
		Version:       1,
		RenderVersion: renderVersion,
		SettingsHash:  settings,
		SourceHash:    source,
		Memes:         map[string]manifest.Entry{},
	}
	for _, it := range items {
		if it.err != nil {
			keepPrevious(cfg.OutDir, old, next, it.filename)
			continue
		}
		if it.skip {
			next.Memes[it.filename] = prev.Memes[it.filename]
			continue
		}
		if err := writeFileAtomic(filepath.Join(cfg.OutDir, it.filename), it.data); err != nil {
			it.err = fmt.Errorf("write %s: %w", it.filename, err)
			keepPrevious(cfg.OutDir, old, next, it.filename)
			continue
		}
		next.Memes[it.filename] = manifest.Entry{
			Caption:  it.caption,
			Hash:     it.hash,
			FontSize: it.layout.FontSize,
			Lines:    len(it.layout.Lines),
			Overflow: it.layout.Overflow(r.Policy),
		}
	}

	result := &Result{Total: len(items)}
	removed, err := removeStale(cfg.OutDir, previousNames(old), next)
	if err != nil {
		return nil, err
	}
	result.Removed = removed
	collect(cfg, r, items, result)

	if cfg.Preview {
		page, err := buildPreview(items, result, cfg.PreviewLimit)
		if err != nil {
			return nil, err
		}
		if err := writeFileAtomic(filepath.Join(cfg.OutDir, previewName), []byte(page)); err != nil {
			return nil, err
		}
	}

	if err := manifest.Save(manifestPath, next); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}
	cfg.Logger.Info("batch written", "dir", cfg.OutDir, "rendered", result.Rendered, "skipped", result.Skipped, "removed", result.Removed, "failed", len(result.Failures))
	return result, nil
}

// keepPrevious carries the last run's output for a caption that failed this
// time. Its stale hash makes the next run render it again.
func keepPrevious(dir string, old, next *manifest.Manifest, name string) {
	if old == nil {
		return
	}
	entry, ok := old.Memes[name]
	if ok && fileExists(filepath.Join(dir, name)) {
		next.Memes[name] = entry
	}
}

// previousNames lists every file the last run recorded, even when its
// manifest was discarded for being out of date.
func previousNames(old *manifest.Manifest) []string {
	if old == nil {
		return nil
	}
	names := make([]string, 0, len(old.Memes))
	for name := range old.Memes {
		names = append(names, name)
	}
	return names
}

func removeStale(dir string, previous []string, next *manifest.Manifest) (int, error) {
	removed := 0
	for _, name := range previous {
		if _, keep := next.Memes[name]; keep {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err == nil {
			removed++
		} else if !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
	}
	return removed, nil
}

// writeFileAtomic never leaves a partially written file under path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func settingsHash(r *render.Renderer, cfg Config) string {
	fontSource := ""
	if h, err := r.Fonts.Resolve(float64(r.Policy.MinFontSize)); err == nil {
		fontSource = h.Source
	}
	return util.HashJSON(map[string]any{
		"policy":       r.Policy,
		"fill":         fmt.Sprint(r.Style.Fill),
		"outline":      fmt.Sprint(r.Style.Outline),
		"outlineWidth": r.Style.OutlineWidth,
		"maxWidth":     r.MaxWidth,
		"background":   fmt.Sprint(r.Background),
		"font":         fontSource,
		"anchor":       cfg.Anchor.String(),
		"quality":      cfg.Quality,
		"slugLength":   cfg.SlugLength,
	})
}
