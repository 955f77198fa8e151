package uploadimage

import (
	"context"
	"io"
	"strings"

	"loan-broker/internal/common/cloudinary"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
)

const (
	Operation = "upload-image"
)

const (
	MsgFileRequired = "Required"
	MsgNotAnImage   = "File must be an image"
	MsgTooLarge     = "Image must be 5 MB or smaller"
	MsgUploadFailed = "Failed to upload image, please try again"
)

// Uploader is satisfied by *cloudinary.Client.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (*cloudinary.UploadResult, error)
}

type Handler struct {
	config   *Config
	uploader Uploader
	logger   logger.Logger
}

func NewHandler(config *Config, uploader Uploader, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		uploader: uploader,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if input == nil || input.File == nil {
		return nil, apperrors.NewFieldError("file", MsgFileRequired)
	}
	if !strings.HasPrefix(strings.ToLower(input.ContentType), "image/") {
		return nil, apperrors.NewFieldError("file", MsgNotAnImage)
	}
	if input.Size > h.config.MaxBytes {
		return nil, apperrors.NewFieldError("file", MsgTooLarge)
	}

	// Size comes from the multipart header; the reader is capped in case it lies.
	result, err := h.uploader.Upload(ctx, input.Filename, io.LimitReader(input.File, h.config.MaxBytes+1))
	if err != nil {
		h.logger.Error("image upload failed", map[string]interface{}{
			"filename": input.Filename,
			"error":    err.Error(),
		})
		return nil, apperrors.NewFieldError("file", MsgUploadFailed)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}

	h.logger.Info("image uploaded", map[string]interface{}{
		"publicId": result.PublicID,
		"bytes":    input.Size,
	})
	return &Output{
		PublicID: result.PublicID,
		URL:      url,
		Width:    result.Width,
		Height:   result.Height,
	}, nil
}
