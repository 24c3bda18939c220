// Package batch renders one meme per caption over a shared source image and
// writes the results to a directory or a zip archive.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/creachadair/taskgroup"

	"github.com/huugof/meme-factory/internal/layout"
	"github.com/huugof/meme-factory/internal/render"
	"github.com/huugof/meme-factory/internal/util"
)

// renderVersion invalidates directory outputs when drawing changes.
const renderVersion = "20250301"

const (
	filePrefix  = "meme"
	fileExt     = "jpg"
	previewName = "index.html"
)

type Config struct {
	// OutDir receives the images when Archive is empty.
	OutDir string
	// Archive is the path of a zip file to write instead of a directory.
	Archive      string
	Anchor       layout.Anchor
	Quality      int
	SlugLength   int
	Workers      int
	Preview      bool
	PreviewLimit int
	Force        bool
	Logger       *slog.Logger
}

type Failure struct {
	Index   int
	Caption string
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("caption %d (%q): %v", f.Index+1, f.Caption, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

type Result struct {
	Total    int
	Rendered int
	Skipped  int
	Removed  int
	// Files lists successful outputs in caption order.
	Files      []string
	Overflowed []string
	Failures   []Failure
}

// Err joins the per-caption failures, or returns nil.
func (r *Result) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

type item struct {
	index    int
	caption  string
	filename string
	hash     string
	data     []byte
	layout   *layout.Result
	skip     bool
	err      error
}

// Execute renders every caption. A failing caption is reported in
// Result.Failures and never affects the others; the returned error is
// reserved for output that could not be written.
func Execute(ctx context.Context, cfg Config, r *render.Renderer, src image.Image, captions []string) (*Result, error) {
	cfg = withDefaults(cfg)
	if cfg.Archive == "" && cfg.OutDir == "" {
		return nil, errors.New("batch needs an output directory or archive path")
	}
	items := make([]*item, len(captions))
	for i, c := range captions {
		items[i] = &item{
			index:    i,
			caption:  c,
			filename: util.MemeFilename(filePrefix, i+1, c, cfg.SlugLength, fileExt),
		}
	}
	base := render.Normalize(src, r.MaxWidth, r.Background)
	if cfg.Archive != "" {
		return writeArchive(ctx, cfg, r, base, items)
	}
	return writeDir(ctx, cfg, r, base, items)
}

func withDefaults(cfg Config) Config {
	if cfg.Quality == 0 {
		cfg.Quality = 90
	}
	if cfg.SlugLength == 0 {
		cfg.SlugLength = 30
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.PreviewLimit == 0 {
		cfg.PreviewLimit = 6
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}

// renderAll fills data or err on every item not marked skip. Items are
// independent; once ctx is done the remaining ones fail with ctx.Err().
func renderAll(ctx context.Context, cfg Config, r *render.Renderer, base image.Image, items []*item) {
	start := time.Now()
	g, run := taskgroup.New(nil).Limit(cfg.Workers)
	for _, it := range items {
		if it.skip {
			continue
		}
		it := it
		run(func() error {
			if err := ctx.Err(); err != nil {
				it.err = err
				return nil
			}
			it.data, it.layout, it.err = renderOne(r, base, it.caption, cfg)
			return nil
		})
	}
	g.Wait()
	cfg.Logger.Debug("batch rendered", "captions", len(items), "elapsed", time.Since(start).Round(time.Millisecond))
}

func renderOne(r *render.Renderer, base image.Image, caption string, cfg Config) (data []byte, res *layout.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			data, res, err = nil, nil, fmt.Errorf("render panicked: %v", p)
		}
	}()
	out, err := r.Meme(base, caption, cfg.Anchor)
	if err != nil {
		return nil, nil, err
	}
	data, err = render.JPEGBytes(out.Image, cfg.Quality)
	if err != nil {
		return nil, nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return data, out.Layout, nil
}

// collect folds rendered items into result, in caption order.
func collect(cfg Config, r *render.Renderer, items []*item, result *Result) {
	for _, it := range items {
		switch {
		case it.err != nil:
			result.Failures = append(result.Failures, Failure{Index: it.index, Caption: it.caption, Err: it.err})
			cfg.Logger.Warn("caption failed", "index", it.index+1, "caption", it.caption, "error", it.err)
			continue
		case it.skip:
			result.Skipped++
		default:
			result.Rendered++
			if it.layout.Overflow(r.Policy) {
				result.Overflowed = append(result.Overflowed, it.filename)
				cfg.Logger.Info("caption overflows line budget", "file", it.filename, "lines", len(it.layout.Lines), "fontSize", it.layout.FontSize)
			}
		}
		result.Files = append(result.Files, it.filename)
	}
}
