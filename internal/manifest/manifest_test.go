package manifest

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingIsNil(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || m != nil {
		t.Fatalf("got %v, %v", m, err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	in := &Manifest{
		Version:       1,
		RenderVersion: "r1",
		Memes: map[string]Entry{
			"meme_01_hi.jpg": {Caption: "hi", Hash: "abc", FontSize: 53, Lines: 1},
		},
	}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}
	if in.GeneratedAt == "" {
		t.Fatal("GeneratedAt not stamped")
	}
	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.Memes["meme_01_hi.jpg"] != in.Memes["meme_01_hi.jpg"] || out.RenderVersion != "r1" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestSaveNil(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "x.json"), nil); err == nil {
		t.Fatal("expected error")
	}
}
