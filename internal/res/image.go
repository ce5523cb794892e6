package res

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	// Register decoders for every source format a portrait may use.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

// ResampleMargin is how far a source may exceed its target size before it is
// downsampled.
const ResampleMargin = 1.2

// JPEGQuality is used when re-encoding resampled images
const JPEGQuality = 90

// ErrUnsupportedImage is returned for data no registered decoder accepts
var ErrUnsupportedImage = errors.New("unsupported image format")

// Image is an image ready to embed into the document
type Image struct {
	// Name uniquely identifies the image data within a document
	Name string
	// Type is the embedding type understood by the PDF writer: "JPG" or "PNG"
	Type      string
	Data      []byte
	Width     int
	Height    int
	Resampled bool
}

// ImageResolver resolves portrait references to embeddable images
type ImageResolver interface {
	Resolve(ref string, targetWidthPx, targetHeightPx int, resample bool, dpi float64) (*Image, error)
}

var _ ImageResolver = (*Loader)(nil)

// Resolve loads ref and prepares it for a box of targetWidthPx x
// targetHeightPx pixels. The source is downsampled only when resample is set
// and it is more than ResampleMargin times larger than the target on either
// axis. Results are cached per reference and target.
func (l *Loader) Resolve(ref string, targetWidthPx, targetHeightPx int, resample bool, dpi float64) (*Image, error) {
	resample = resample && dpi > 0 && targetWidthPx > 0 && targetHeightPx > 0
	key := ref
	if resample {
		key = fmt.Sprintf("%s@%dx%d", ref, targetWidthPx, targetHeightPx)
	}

	l.cacheLock.RLock()
	if img, ok := l.cache[key]; ok {
		l.cacheLock.RUnlock()
		return img, nil
	}
	l.cacheLock.RUnlock()

	r, err := l.Load(ref)
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", ref, err)
	}

	img, err := prepareImage(r.Data, targetWidthPx, targetHeightPx, resample)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", ref, err)
	}
	img.Name = key

	l.cacheLock.Lock()
	l.cache[key] = img
	l.cacheLock.Unlock()

	return img, nil
}

// NeedsResample reports whether a source of srcW x srcH exceeds the target
// by more than ResampleMargin on either axis.
func NeedsResample(srcW, srcH, targetW, targetH int) bool {
	return float64(srcW) > float64(targetW)*ResampleMargin ||
		float64(srcH) > float64(targetH)*ResampleMargin
}

// TargetPixels converts a box size in points to pixels at dpi
func TargetPixels(widthPt, heightPt, dpi float64) (int, int) {
	return int(widthPt / 72 * dpi), int(heightPt / 72 * dpi)
}

func prepareImage(data []byte, targetW, targetH int, resample bool) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img := &Image{Width: cfg.Width, Height: cfg.Height}

	if resample && NeedsResample(cfg.Width, cfg.Height, targetW, targetH) {
		src, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding: %w", err)
		}
		dst := imaging.Resize(src, targetW, targetH, imaging.Lanczos)
		// JPEG has no alpha channel; flatten onto white first
		bg := imaging.New(targetW, targetH, color.White)
		flat := imaging.Overlay(bg, dst, image.Pt(0, 0), 1.0)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("encoding resampled image: %w", err)
		}
		img.Type = "JPG"
		img.Data = buf.Bytes()
		img.Width, img.Height = targetW, targetH
		img.Resampled = true
		return img, nil
	}

	if format == "jpeg" {
		img.Type = "JPG"
		img.Data = data
		return img, nil
	}

	// The PDF writer embeds PNG natively; everything else is converted.
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Clone(src)); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	img.Type = "PNG"
	img.Data = buf.Bytes()
	return img, nil
}
