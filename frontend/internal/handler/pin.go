package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	"github.com/whimsyboard/whimsy/frontend/internal/markdown"
	"github.com/whimsyboard/whimsy/shared/api"
	"github.com/whimsyboard/whimsy/shared/domain"
	"github.com/whimsyboard/whimsy/shared/logger"
	"github.com/whimsyboard/whimsy/shared/validation"
)

const imageField = "image"

// PinCreatePostHandler adds a pin to the board. The image is either an
// uploaded file, sent to the image host first, or a link.
func (h *Handler) PinCreatePostHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	targetURL := boardURL(boardID)

	if err := h.parseForm(w, r); err != nil {
		h.redirectWithFlash(w, r, targetURL, flash.Error, formMessage(err))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	imageURL := strings.TrimSpace(r.FormValue("imageUrl"))
	fileHeader := formFile(r, imageField)

	msg := validateForm(
		field("Title", title, "required,"+maxLen(h.Public.PinTitleMaxLen)),
		field("Description", description, "omitempty,"+maxLen(h.Public.PinDescriptionMaxLen)),
	)
	if msg == "" && fileHeader == nil {
		msg = validateForm(field("Image", imageURL, "required,http_url"))
	}
	if msg != "" {
		h.redirectWithFlash(w, r, targetURL, flash.Error, msg)
		return
	}

	if fileHeader != nil {
		img, err := validation.ValidateImage(fileHeader, h.Public.AllowedImageMimeTypes, h.Public.MaxUploadSize)
		if err != nil {
			h.redirectWithFlash(w, r, targetURL, flash.Error, imageErrorMessage(err))
			return
		}
		imageURL, err = h.Images.UploadImage(r.Context(), img)
		if err != nil {
			logger.Log.Error("uploading pin image", "error", err)
			h.redirectWithFlash(w, r, targetURL, flash.Error, "Image upload failed!")
			return
		}
	}

	req := api.CreatePinRequest{
		Title:       title,
		ImageURL:    imageURL,
		Description: description,
		Tags:        markdown.ParseTags(r.FormValue("tags"), h.Public.MaxTagsPerPin),
		Board:       boardID,
	}
	if _, err := h.APIClient.CreatePin(r.Context(), token(r), req); err != nil {
		h.redirectOnAPIError(w, r, err, targetURL, "Failed to add pin!")
		return
	}

	h.redirectWithFlash(w, r, targetURL, flash.Success, "Pin added!")
}

// PinEditPostHandler applies the inline edit form.
func (h *Handler) PinEditPostHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	pinID := chi.URLParam(r, "pinID")
	targetURL := boardURL(boardID)
	formURL := targetURL + "?edit=" + url.QueryEscape(pinID)

	if err := h.parseForm(w, r); err != nil {
		h.redirectWithFlash(w, r, formURL, flash.Error, formMessage(err))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	tags := markdown.ParseTags(r.FormValue("tags"), h.Public.MaxTagsPerPin)

	msg := validateForm(
		field("Title", title, "required,"+maxLen(h.Public.PinTitleMaxLen)),
		field("Description", description, "omitempty,"+maxLen(h.Public.PinDescriptionMaxLen)),
	)
	if msg != "" {
		h.redirectWithFlash(w, r, formURL, flash.Error, msg)
		return
	}

	req := api.UpdatePinRequest{
		Title:       &title,
		Description: &description,
		Tags:        &tags,
	}
	if err := h.APIClient.UpdatePin(r.Context(), token(r), pinID, req); err != nil {
		h.redirectOnAPIError(w, r, err, formURL, "Failed to edit!")
		return
	}

	h.redirectWithFlash(w, r, targetURL, flash.Success, "Pin updated!")
}

func (h *Handler) PinDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	pinID := chi.URLParam(r, "pinID")
	targetURL := boardURL(boardID)

	if err := h.APIClient.DeletePin(r.Context(), token(r), pinID); err != nil {
		h.redirectOnAPIError(w, r, err, targetURL, "Error deleting Pin!")
		return
	}

	h.redirectWithFlash(w, r, targetURL, flash.Success, "Pin deleted")
}

// PinGeneratePostHandler asks for a caption and tags for an existing pin and
// stores them on it. Generated tags are merged into the pin's current ones.
func (h *Handler) PinGeneratePostHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	pinID := chi.URLParam(r, "pinID")
	targetURL := boardURL(boardID)

	if err := h.parseForm(w, r); err != nil {
		h.redirectWithFlash(w, r, targetURL, flash.Error, formMessage(err))
		return
	}

	imageURL := strings.TrimSpace(r.FormValue("imageUrl"))
	title := strings.TrimSpace(r.FormValue("title"))
	if msg := validateForm(field("Image", imageURL, "required,http_url")); msg != "" {
		h.redirectWithFlash(w, r, targetURL, flash.Error, msg)
		return
	}

	tok := token(r)
	generated, err := h.APIClient.GenerateMetadata(r.Context(), tok, api.GenerateMetadataRequest{ImageURL: imageURL, Title: title})
	if err != nil {
		h.redirectOnAPIError(w, r, err, targetURL, "Could not generate a caption.")
		return
	}

	tags := mergeTags(r.FormValue("tags"), generated.Tags, h.Public.MaxTagsPerPin)
	caption := strings.TrimSpace(generated.Caption)
	if err := h.APIClient.UpdatePin(r.Context(), tok, pinID, api.UpdatePinRequest{Caption: &caption, Tags: &tags}); err != nil {
		h.redirectOnAPIError(w, r, err, targetURL, "Failed to edit!")
		return
	}

	h.redirectWithFlash(w, r, targetURL, flash.Success, "Caption generated!")
}

func mergeTags(existing string, generated domain.Tags, max int) domain.Tags {
	return markdown.ParseTags(existing+","+markdown.JoinTags(generated), max)
}

// formFile returns the uploaded file under name, or nil when the form carries
// none (an empty file input still sends a part with no filename).
func formFile(r *http.Request, name string) *multipart.FileHeader {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil
	}
	files := r.MultipartForm.File[name]
	if len(files) == 0 || files[0].Filename == "" || files[0].Size == 0 {
		return nil
	}
	return files[0]
}

func imageErrorMessage(err error) string {
	switch {
	case errors.Is(err, validation.ErrPayloadTooLarge):
		return "The image is too large."
	case errors.Is(err, validation.ErrInvalidMimeType):
		return "This image type is not supported."
	case errors.Is(err, validation.ErrNotAnImage):
		return "The file is not a readable image."
	case errors.Is(err, validation.ErrNoFile):
		return "No image was uploaded."
	default:
		return "Image upload failed!"
	}
}
