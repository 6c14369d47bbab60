package utils

import (
	"fmt"
	"math"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxPercent bounds markup percentage inputs at the API boundary.
const MaxPercent = 1000

// ValidPercent reports whether a markup percentage input is usable: a
// finite number in [0, MaxPercent]. Nil is not valid; callers that treat
// nil as "inherit" check for nil first.
func ValidPercent(value *float64) bool {
	if value == nil {
		return false
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return false
	}
	return *value >= 0 && *value <= MaxPercent
}

// AllowedImageContentTypes is the set of allowed content types for photo uploads.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// MaxUploadSize is the maximum allowed file size for uploads (5MB).
const MaxUploadSize = 5 << 20 // 5MB

// ValidateFileUpload checks that the uploaded file has a valid image content type
// and does not exceed the maximum file size.
func ValidateFileUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of 5MB", fh.Size)
	}

	contentType := fh.Header.Get("Content-Type")
	if !AllowedImageContentTypes[contentType] {
		return fmt.Errorf("invalid file type '%s'; allowed types: image/jpeg, image/png, image/webp, image/gif", contentType)
	}

	return nil
}

// ExtractObjectPath extracts the storage object path from a full public URL.
func ExtractObjectPath(url string) (string, error) {
	const prefix = "https://storage.googleapis.com/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("invalid URL")
	}

	// Remove prefix and bucket name
	path := strings.TrimPrefix(url, prefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid URL format")
	}

	return parts[1], nil
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}
