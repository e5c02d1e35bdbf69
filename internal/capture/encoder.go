package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"strings"
)

// DefaultJPEGQuality matches the quality browsers use for canvas JPEG
// export.
const DefaultJPEGQuality = 92

// JPEGEncoder encodes frames as JPEG data URLs.
type JPEGEncoder struct {
	Quality int // 1-100; zero uses DefaultJPEGQuality
}

var _ FrameEncoder = JPEGEncoder{}

// EncodeDataURL draws img onto an RGBA raster of the same bounds and
// returns it as "data:image/jpeg;base64,...".
func (e JPEGEncoder) EncodeDataURL(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("encode frame: no frame")
	}
	b := img.Bounds()
	if b.Empty() {
		return "", fmt.Errorf("encode frame: empty frame %v", b)
	}

	raster := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(raster, raster.Bounds(), img, b.Min, draw.Src)

	quality := e.Quality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, raster, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// StripDataURL returns the payload after the first comma of a data URL.
// Input without a data URL header is returned unchanged.
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return ""
}
