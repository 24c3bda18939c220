package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"os/signal"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/huugof/meme-factory/internal/batch"
	"github.com/huugof/meme-factory/internal/captions"
	"github.com/huugof/meme-factory/internal/config"
	"github.com/huugof/meme-factory/internal/fonts"
	"github.com/huugof/meme-factory/internal/layout"
	"github.com/huugof/meme-factory/internal/render"
	"github.com/huugof/meme-factory/internal/static"
)

type options struct {
	imagePath    string
	captionsPath string
	replyPath    string
	tone         string
	outDir       string
	archive      string
	anchor       string
	configPath   string
	initConfig   string
	force        bool
	preview      bool
	verbose      bool
	texts        []string
}

func main() {
	var opts options
	flag.StringVar(&opts.imagePath, "image", "", "source image (jpeg, png, gif, webp, bmp)")
	flag.StringVar(&opts.captionsPath, "captions", "", "caption list (.txt, .json, .yaml, .md)")
	flag.StringVar(&opts.replyPath, "reply", "", "raw phrase-generator reply containing a JSON array of captions")
	flag.StringVar(&opts.tone, "context", "", "tone and audience passed to the phrase generator")
	flag.StringVar(&opts.outDir, "out", "memes", "output directory")
	flag.StringVar(&opts.archive, "zip", "", "write a zip archive instead of a directory (e.g. "+batch.DefaultArchiveName+")")
	flag.StringVar(&opts.anchor, "anchor", "bottom", "caption placement: top, bottom or auto")
	flag.StringVar(&opts.configPath, "config", "", "YAML config file")
	flag.StringVar(&opts.initConfig, "init-config", "", "write the default config to this path and exit")
	flag.BoolVar(&opts.force, "force", false, "re-render every caption")
	flag.BoolVar(&opts.preview, "preview", false, "write an index.html gallery next to the images")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -image <file> [-captions <file>] [-reply <file>] [caption ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.texts = flag.Args()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("memegen failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	if opts.initConfig != "" {
		return os.WriteFile(opts.initConfig, []byte(static.DefaultConfig), 0o644)
	}
	if opts.imagePath == "" {
		flag.Usage()
		return errors.New("-image is required")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	anchor, err := layout.ParseAnchor(opts.anchor)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(opts.imagePath)
	if err != nil {
		return err
	}
	var gen captions.Generator
	if opts.replyPath != "" {
		gen = captions.ReplyFile{Path: opts.replyPath}
	}
	list, err := gatherCaptions(ctx, opts, gen, raw, logger)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return errors.New("no captions given")
	}

	src, err := decodeImage(opts.imagePath, raw)
	if err != nil {
		return err
	}

	chain := fonts.NewChain(cfg.Fonts, cfg.FontDirs)
	chain.Logger = logger
	renderer := render.New(cfg, chain)

	result, err := batch.Execute(ctx, batch.Config{
		OutDir:       opts.outDir,
		Archive:      opts.archive,
		Anchor:       anchor,
		Quality:      cfg.JPEGQuality,
		SlugLength:   cfg.SlugLength,
		Workers:      cfg.Workers,
		Preview:      opts.preview,
		PreviewLimit: cfg.PreviewLimit,
		Force:        opts.force,
		Logger:       logger,
	}, renderer, src, list)
	if err != nil {
		return err
	}

	for _, name := range result.Files {
		fmt.Println(name)
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("%d of %d captions failed: %w", len(result.Failures), result.Total, err)
	}
	return nil
}

func gatherCaptions(ctx context.Context, opts options, gen captions.Generator, picture []byte, logger *slog.Logger) ([]string, error) {
	var list []string
	if opts.captionsPath != "" {
		res, err := captions.Load(opts.captionsPath)
		if err != nil {
			return nil, fmt.Errorf("load captions: %w", err)
		}
		for _, w := range res.Warnings {
			logger.Warn(w)
		}
		list = append(list, res.Captions...)
	}
	if gen != nil {
		phrases, err := gen.Phrases(ctx, picture, captions.MimeType(opts.imagePath), opts.tone)
		if err != nil {
			return nil, fmt.Errorf("generate phrases: %w", err)
		}
		list = append(list, phrases...)
	}
	return append(list, opts.texts...), nil
}

func decodeImage(path string, raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
