package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrInvalidMimeType is returned when an uploaded file has a disallowed MIME type
var ErrInvalidMimeType = errors.New("invalid MIME type")

// ErrNotAnImage is returned when an upload claims an image type but does not decode as one
var ErrNotAnImage = errors.New("file is not a readable image")

// ErrNoFile is returned when a form carries no file under the expected field
var ErrNoFile = errors.New("no file uploaded")

// ErrInvalidForm is returned when a multipart body cannot be parsed
var ErrInvalidForm = errors.New("invalid form data")
