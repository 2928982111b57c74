package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"kidassess/internal/imaging"
	"kidassess/internal/repository"
)

// ImageHandler crops and hosts question imagery
type ImageHandler struct {
	imageRepo repository.ImageRepo
}

func NewImageHandler(imageRepo repository.ImageRepo) *ImageHandler {
	return &ImageHandler{imageRepo: imageRepo}
}

// CropRequest carries the editor's confirm-crop payload: the uploaded image
// as a data URI, the drawn region in displayed coordinates, and the viewport
// describing how the preview was scaled.
type CropRequest struct {
	Image    string           `json:"image"`
	Region   imaging.Region   `json:"region"`
	Viewport imaging.Viewport `json:"viewport"`
}

// Crop handles POST /v1/images/crop: rasterizes the cropped region at source
// resolution, stores it, and returns the hosted URL.
func (h *ImageHandler) Crop(w http.ResponseWriter, r *http.Request) {
	var req CropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, _, err := imaging.ParseDataURI(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image must be an inline data URI")
		return
	}
	src, err := imaging.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image could not be decoded")
		return
	}

	raster, err := imaging.Confirm(src, req.Region, req.Viewport)
	if err != nil {
		if errors.Is(err, imaging.ErrEmptyRegion) || errors.Is(err, imaging.ErrBadViewport) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id, err := h.imageRepo.Store(r.Context(), raster, "image/jpeg")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": "/v1/images/" + id})
}

// Get handles GET /v1/images/{imageId}: serves hosted image bytes.
func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	image, err := h.imageRepo.Get(r.Context(), mux.Vars(r)["imageId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if image == nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(image.Data)
}
