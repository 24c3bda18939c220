package main

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	for y := 0; y < 500; y++ {
		for x := 0; x < 1000; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRunWritesOnePerCaption(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "base.png")
	writePNG(t, imgPath)
	replyPath := filepath.Join(dir, "reply.txt")
	if err := os.WriteFile(replyPath, []byte(`Here: ["from the reply", "second reply"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "memegen.yaml")
	if err := os.WriteFile(cfgPath, []byte("fonts: [builtin:gobold]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")
	opts := options{
		imagePath:  imgPath,
		replyPath:  replyPath,
		outDir:     out,
		anchor:     "top",
		configPath: cfgPath,
		texts:      []string{"from the command line"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), opts, logger); err != nil {
		t.Fatalf("run: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(out, "*.jpg"))
	if len(matches) != 3 {
		t.Fatalf("outputs = %q", matches)
	}
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 800 || cfg.Height != 400 {
		t.Fatalf("output size %dx%d, want 800x400", cfg.Width, cfg.Height)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), options{anchor: "bottom", texts: []string{"x"}}, logger); err == nil {
		t.Fatal("expected error without -image")
	}
	if err := run(context.Background(), options{imagePath: "x.png", anchor: "sideways", texts: []string{"x"}}, logger); err == nil {
		t.Fatal("expected error for bad anchor")
	}
}

func TestRunInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memegen.yaml")
	if err := run(context.Background(), options{initConfig: path}, slog.Default()); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("config not written: %v", err)
	}
}

type recordingGenerator struct {
	picture  []byte
	mimeType string
	tone     string
}

func (g *recordingGenerator) Phrases(_ context.Context, picture []byte, mimeType, tone string) ([]string, error) {
	g.picture, g.mimeType, g.tone = picture, mimeType, tone
	return []string{"generated one", "generated two"}, nil
}

func TestGatherCaptionsOrder(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "captions.txt")
	if err := os.WriteFile(listPath, []byte("from file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	gen := &recordingGenerator{}
	opts := options{imagePath: "photo.png", captionsPath: listPath, tone: "dry humor", texts: []string{"from args"}}
	got, err := gatherCaptions(context.Background(), opts, gen, []byte{1, 2, 3}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"from file", "generated one", "generated two", "from args"}
	if len(got) != len(want) {
		t.Fatalf("got %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
	if gen.mimeType != "image/png" || gen.tone != "dry humor" || len(gen.picture) != 3 {
		t.Fatalf("generator called with %+v", gen)
	}
}
