package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/services"
)

var (
	errInvalidImage   = errors.New("only .jpeg, .jpg and .png images are allowed")
	errImageTooLarge  = errors.New("profile image is too large")
	errInvalidDueDate = errors.New("due_date must be an ISO 8601 date")
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readAvatar buffers the optional profile image of a multipart request.
// It returns nil when the request carries no image.
func readAvatar(c *gin.Context, maxBytes int64) (*services.Avatar, error) {
	if !isMultipart(c) {
		return nil, nil
	}

	header, err := c.FormFile(constants.AvatarFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, fmt.Errorf("%w (max %d bytes)", errImageTooLarge, maxBytes)
	}

	contentType, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if _, ok := constants.AllowedImageTypes[strings.ToLower(contentType)]; !ok {
		return nil, errInvalidImage
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limit := maxBytes
	if limit <= 0 {
		limit = header.Size
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errImageTooLarge
	}

	// The declared type must match the bytes.
	if _, ok := constants.AllowedImageTypes[http.DetectContentType(data)]; !ok {
		return nil, errInvalidImage
	}

	return &services.Avatar{Data: data, ContentType: strings.ToLower(contentType)}, nil
}

// parseDueDate accepts RFC 3339 timestamps and plain dates. Empty means absent.
func parseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errInvalidDueDate
}
