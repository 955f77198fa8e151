package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"loan-broker/internal/common/config"
	"loan-broker/internal/common/errors"
	httpclient "loan-broker/internal/common/http"
)

// UploadResult is the part of Cloudinary's upload response the application keeps.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client performs unsigned uploads against the Cloudinary upload API.
type Client struct {
	baseURL      string
	cloudName    string
	uploadPreset string
	httpClient   httpclient.Doer
}

func NewClient(cfg config.CloudinaryConfig, doer httpclient.Doer) *Client {
	if doer == nil {
		doer = httpclient.NewClient(config.GetDuration(cfg.Timeout))
	}
	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		cloudName:    cfg.CloudName,
		uploadPreset: cfg.UploadPreset,
		httpClient:   doer,
	}
}

// Upload streams one image to Cloudinary and returns its stored identity.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy upload: %w", err)
	}
	for field, value := range map[string]string{
		"upload_preset": c.uploadPreset,
		"tags":          "rte",
		"context":       "",
	} {
		if err := w.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/%s/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeExternalService,
			Message:   "Failed to create HTTP request",
			Details:   err.Error(),
			Retryable: false,
		}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalServiceError("cloudinary", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewExternalServiceError("cloudinary", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		details := string(respBody)
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			details = apiErr.Error.Message
		}
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeExternalService,
			Message:   "Cloudinary API error during upload",
			Details:   fmt.Sprintf("status %d: %s", resp.StatusCode, details),
			Retryable: httpclient.IsTransientStatus(resp.StatusCode),
		}
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.NewExternalServiceError("cloudinary", fmt.Errorf("failed to decode upload response: %w", err))
	}
	if result.PublicID == "" {
		return nil, errors.NewExternalServiceError("cloudinary", fmt.Errorf("upload response has no public_id"))
	}

	return &result, nil
}

// DeliveryURL is the public URL of an uploaded image.
func (c *Client) DeliveryURL(publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", c.cloudName, publicID)
}
