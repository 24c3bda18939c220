package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
)

func HashStrings(parts ...string) string {
	return HashJSON(parts)
}

func HashJSON(value any) string {
	data, _ := json.Marshal(value)
	return HashBytes(data)
}

func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashImage fingerprints decoded pixels so a re-encoded copy of the same
// picture keeps the same key.
func HashImage(img image.Image) string {
	b := img.Bounds()
	h := sha256.New()
	fmt.Fprintf(h, "%dx%d;", b.Dx(), b.Dy())
	var px [8]byte
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			px[0], px[1] = byte(r>>8), byte(r)
			px[2], px[3] = byte(g>>8), byte(g)
			px[4], px[5] = byte(bl>>8), byte(bl)
			px[6], px[7] = byte(a>>8), byte(a)
			h.Write(px[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
