package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/whimsyboard/whimsy/frontend/internal/markdown"
	"github.com/whimsyboard/whimsy/shared/api"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
	"github.com/whimsyboard/whimsy/shared/logger"
	"github.com/whimsyboard/whimsy/shared/utils"
	"github.com/whimsyboard/whimsy/shared/validation"
)

// UploadPostHandler is the JSON upload endpoint used by page scripts: one
// multipart file in, {"secure_url": ...} out.
func (h *Handler) UploadPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := validation.ValidateAndParseMultipart(r, w, validation.CalculateMaxRequestSize(h.Public.MaxUploadSize, 1<<20)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, validation.ErrPayloadTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		utils.WriteJSONError(w, internal_errors.New(formMessage(err), status))
		return
	}

	fileHeader := formFile(r, imageField)
	if fileHeader == nil {
		fileHeader = formFile(r, "file")
	}
	img, err := validation.ValidateImage(fileHeader, h.Public.AllowedImageMimeTypes, h.Public.MaxUploadSize)
	if err != nil {
		status := http.StatusBadRequest
		if !validation.IsClientError(err) {
			status = http.StatusInternalServerError
		}
		utils.WriteJSONError(w, internal_errors.New(imageErrorMessage(err), status))
		return
	}

	url, err := h.Images.UploadImage(r.Context(), img)
	if err != nil {
		logger.Log.Error("uploading image", "error", err)
		utils.WriteJSONError(w, internal_errors.New("Image upload failed!", http.StatusBadGateway))
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.UploadResponse{SecureURL: url})
}

// GeneratePostHandler is the JSON caption endpoint used by the add-pin form:
// {"imageUrl", "title"} in, {"caption", "tags"} out.
func (h *Handler) GeneratePostHandler(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateMetadataRequest
	if err := utils.Decode(http.MaxBytesReader(w, r.Body, 64<<10), &req); err != nil {
		utils.WriteJSONError(w, err)
		return
	}
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.Title = strings.TrimSpace(req.Title)

	if msg := validateForm(field("Image", req.ImageURL, "required,http_url")); msg != "" {
		utils.WriteJSONError(w, internal_errors.New(msg, http.StatusBadRequest))
		return
	}

	generated, err := h.APIClient.GenerateMetadata(r.Context(), token(r), req)
	if err != nil {
		logger.Log.Error("generating caption", "error", err)
		utils.WriteJSONError(w, err)
		return
	}

	generated.Tags = markdown.ParseTags(markdown.JoinTags(generated.Tags), h.Public.MaxTagsPerPin)
	utils.WriteJSON(w, http.StatusOK, generated)
}
