// Package cdn uploads images to the CDN service and returns their public URL.
package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrFileMustBeImage             = errors.New("file must be an image")
	ErrFileMustHaveAValidExtension = errors.New("file must have a valid extension")
	ErrUploadFailed                = errors.New("failed to upload image to CDN")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

type Client struct {
	origin     string
	folder     string
	httpClient *http.Client
}

func New(origin string, folder string, timeout time.Duration) *Client {
	return &Client{
		origin: strings.TrimRight(origin, "/"),
		folder: folder,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ValidateImage accepts jpg and png files only.
func ValidateImage(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ErrFileMustHaveAValidExtension
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrFileMustBeImage
	}
	return nil
}

// Upload stores file under <folder>/<path> and returns the URL the CDN
// responded with.
func (c *Client) Upload(ctx context.Context, path string, file io.Reader, filename string) (string, error) {
	if err := ValidateImage(filename); err != nil {
		return "", err
	}

	endpoint := "/upload"
	url := c.origin + endpoint

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	fileWriter, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file part for CDN request: %w", err)
	}

	if seeker, ok := file.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("failed to seek to the start of the file: %w", err)
		}
	}

	if _, err := io.Copy(fileWriter, file); err != nil {
		return "", fmt.Errorf("failed to copy file content for CDN request: %w", err)
	}

	if err := writer.WriteField("path", c.folder+"/"+path); err != nil {
		return "", fmt.Errorf("failed to write path field for CDN request: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer for CDN request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to create CDN request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Add("type", "IMAGE")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to do CDN request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from CDN: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(body, &bodyJSON); err == nil {
			return "", fmt.Errorf("%w: endpoint(%s), code(%d), details: %v", ErrUploadFailed, endpoint, resp.StatusCode, bodyJSON["details"])
		}
		return "", fmt.Errorf("%w: endpoint(%s), code(%d)", ErrUploadFailed, endpoint, resp.StatusCode)
	}

	return strings.TrimSpace(string(body)), nil
}
