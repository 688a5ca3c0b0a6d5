package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

var (
	ErrInvalidDataURL = errors.New("image must be a base64 data URL")
	ErrUnsupported    = errors.New("unsupported image format")
	ErrEmptyCrop      = errors.New("crop area does not overlap the image")
	ErrTooLarge       = errors.New("image exceeds the size limit")
)

// Rect is a crop area in source pixels, as emitted by the crop widget.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Options controls the exported image. A zero OutputWidth or OutputHeight is
// derived from the other to keep the crop's aspect ratio; both zero keeps the
// crop size. MaxWidth and MaxHeight bound the result; MaxBytes and
// MaxSourcePixels bound the upload before it is decoded.
type Options struct {
	OutputWidth     int
	OutputHeight    int
	MaxWidth        int
	MaxHeight       int
	MaxBytes        int
	MaxSourcePixels int
	Format          string
	JPEGQuality     int
}

type Result struct {
	DataURL string
	MIME    string
	Width   int
	Height  int
}

// CropDataURL decodes a png/jpeg/gif/webp data URL, crops it to rect, scales
// with Catmull-Rom and re-encodes it as a PNG or JPEG data URL.
func CropDataURL(input string, rect Rect, opts Options) (Result, error) {
	raw, err := DecodeDataURL(input)
	if err != nil {
		return Result{}, err
	}
	if opts.MaxBytes > 0 && len(raw) > opts.MaxBytes {
		return Result{}, ErrTooLarge
	}

	if err := checkDimensions(raw, opts.MaxSourcePixels); err != nil {
		return Result{}, err
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	area := image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height).
		Add(src.Bounds().Min).
		Intersect(src.Bounds())
	if area.Empty() {
		return Result{}, ErrEmptyCrop
	}

	w, h := targetSize(area.Dx(), area.Dy(), opts)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, area, draw.Over, nil)

	return encode(dst, opts)
}

// checkDimensions reads only the image header, so an upload that declares a
// huge canvas is refused before any pixel buffer is allocated.
func checkDimensions(raw []byte, maxPixels int) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image", ErrUnsupported)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// DecodeDataURL returns the payload bytes of a base64 data URL.
func DecodeDataURL(input string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(input), ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return raw, nil
}

// EncodeDataURL wraps raw bytes as a base64 data URL of the given MIME type.
func EncodeDataURL(mime string, raw []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

func targetSize(cropW, cropH int, opts Options) (int, int) {
	w, h := opts.OutputWidth, opts.OutputHeight
	switch {
	case w <= 0 && h <= 0:
		w, h = cropW, cropH
	case w <= 0:
		w = max(1, cropW*h/cropH)
	case h <= 0:
		h = max(1, cropH*w/cropW)
	}

	if opts.MaxWidth > 0 && w > opts.MaxWidth {
		h = max(1, h*opts.MaxWidth/w)
		w = opts.MaxWidth
	}
	if opts.MaxHeight > 0 && h > opts.MaxHeight {
		w = max(1, w*opts.MaxHeight/h)
		h = opts.MaxHeight
	}
	return w, h
}

func encode(img *image.RGBA, opts Options) (Result, error) {
	var buf bytes.Buffer
	mime := "image/png"

	switch strings.ToLower(opts.Format) {
	case "", FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return Result{}, fmt.Errorf("encode png: %w", err)
		}
	case FormatJPEG, "jpg":
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return Result{}, fmt.Errorf("encode jpeg: %w", err)
		}
		mime = "image/jpeg"
	default:
		return Result{}, fmt.Errorf("%w: output %q", ErrUnsupported, opts.Format)
	}

	b := img.Bounds()
	return Result{
		DataURL: EncodeDataURL(mime, buf.Bytes()),
		MIME:    mime,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}
