package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/imaging"
)

// LogoSize is the square edge a logo is exported at when no output size is given.
const LogoSize = 512

// CropInput is one crop-and-export request from the image editor.
type CropInput struct {
	Kind         enums.MediaKind
	DataURL      string
	Rect         imaging.Rect
	OutputWidth  int
	OutputHeight int
	Format       string
}

type CropOutput struct {
	DataURL string `json:"data_url"`
	MIME    string `json:"mime_type"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Bytes   int    `json:"size_bytes"`
}

// Service crops uploaded images in memory. Nothing is stored.
type Service interface {
	Crop(ctx context.Context, input CropInput) (*CropOutput, error)
}

type service struct {
	cfg config.MediaConfig
}

func NewService(cfg config.MediaConfig) (Service, error) {
	if cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("max image bytes must be positive")
	}
	if cfg.MaxOutputWidth <= 0 || cfg.MaxOutputHeight <= 0 {
		return nil, fmt.Errorf("max output size must be positive")
	}
	if cfg.MaxSourcePixels <= 0 {
		return nil, fmt.Errorf("max source pixels must be positive")
	}
	return &service{cfg: cfg}, nil
}

func (s *service) Crop(ctx context.Context, input CropInput) (*CropOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind := input.Kind
	if kind == "" {
		kind = enums.MediaKindDealImage
	}
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	if strings.TrimSpace(input.DataURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	if input.Rect.Width <= 0 || input.Rect.Height <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop width and height must be positive")
	}
	if input.OutputWidth < 0 || input.OutputHeight < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "output size cannot be negative")
	}

	mimeType, err := dataURLMimeType(input.DataURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, imaging.ErrInvalidDataURL.Error())
	}
	if !isAllowedInput(kind, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s images must be %s", strings.ReplaceAll(kind.String(), "_", " "), allowedDescription(kind)))
	}

	opts := imaging.Options{
		OutputWidth:     input.OutputWidth,
		OutputHeight:    input.OutputHeight,
		MaxWidth:        s.cfg.MaxOutputWidth,
		MaxHeight:       s.cfg.MaxOutputHeight,
		MaxBytes:        s.cfg.MaxImageBytes,
		MaxSourcePixels: s.cfg.MaxSourcePixels,
		Format:          input.Format,
		JPEGQuality:     s.cfg.JPEGQuality,
	}
	if kind == enums.MediaKindLogo && opts.OutputWidth == 0 && opts.OutputHeight == 0 {
		opts.OutputWidth, opts.OutputHeight = LogoSize, LogoSize
	}

	result, err := imaging.CropDataURL(input.DataURL, input.Rect, opts)
	if err != nil {
		return nil, mapImagingError(err)
	}
	return &CropOutput{
		DataURL: result.DataURL,
		MIME:    result.MIME,
		Width:   result.Width,
		Height:  result.Height,
		Bytes:   len(result.DataURL),
	}, nil
}

func mapImagingError(err error) error {
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image exceeds the size limit")
	case errors.Is(err, imaging.ErrEmptyCrop):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "crop area does not overlap the image")
	case errors.Is(err, imaging.ErrInvalidDataURL), errors.Is(err, imaging.ErrUnsupported):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image could not be read")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "crop image")
	}
}
