package controllers

import (
	"net/http"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/api/validators"
	"github.com/dealdesk/merchant-portal/internal/media"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/dealdesk/merchant-portal/pkg/imaging"
	"github.com/dealdesk/merchant-portal/pkg/logger"
)

type cropArea struct {
	X      int `json:"x" validate:"min=0"`
	Y      int `json:"y" validate:"min=0"`
	Width  int `json:"width" validate:"required,min=1"`
	Height int `json:"height" validate:"required,min=1"`
}

type cropRequest struct {
	Kind         enums.MediaKind `json:"kind" validate:"omitempty,oneof=deal_image logo"`
	Image        string          `json:"image" validate:"required"`
	Crop         cropArea        `json:"crop"`
	OutputWidth  int             `json:"output_width" validate:"min=0,max=4096"`
	OutputHeight int             `json:"output_height" validate:"min=0,max=4096"`
	Format       string          `json:"format" validate:"omitempty,oneof=png jpeg jpg"`
}

// MediaCrop crops an image data URL and returns the exported data URL.
func MediaCrop(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("media"))
			return
		}

		var body cropRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Crop(r.Context(), media.CropInput{
			Kind:    body.Kind,
			DataURL: body.Image,
			Rect: imaging.Rect{
				X:      body.Crop.X,
				Y:      body.Crop.Y,
				Width:  body.Crop.Width,
				Height: body.Crop.Height,
			},
			OutputWidth:  body.OutputWidth,
			OutputHeight: body.OutputHeight,
			Format:       body.Format,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
