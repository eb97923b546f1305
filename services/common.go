package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var allowedImageMimeTypes = []string{"image/png", "image/jpeg", "image/webp"}

// MaxUploadImageBytes caps decoded uploads. Oversized payloads are
// rejected before any model call is made.
const MaxUploadImageBytes = 10 * 1024 * 1024

func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// boundedContext derives a deadline-bounded context for an external
// call. A non-positive timeout leaves the parent context untouched.
func boundedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// DecodeUploadedImage decodes a base64 payload, with or without a
// data:image/...;base64, prefix, enforces the size cap and sniffs the
// actual content type. Only png, jpeg and webp make it through.
func DecodeUploadedImage(imageData string) ([]byte, string, error) {
	if strings.HasPrefix(imageData, "data:") {
		if idx := strings.Index(imageData, ","); idx != -1 {
			imageData = imageData[idx+1:]
		}
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image data: %v", err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("image data is empty")
	}
	if len(raw) > MaxUploadImageBytes {
		return nil, "", fmt.Errorf("image exceeds the %dMB limit", MaxUploadImageBytes/(1024*1024))
	}
	mimeType := http.DetectContentType(raw)
	for _, allowed := range allowedImageMimeTypes {
		if mimeType == allowed {
			return raw, mimeType, nil
		}
	}
	return nil, "", fmt.Errorf("unsupported image type: %s", mimeType)
}

// ReadFileFromUrl fetches remote content, e.g. a presigned read URL for
// a stored concept image or a public catalog image.
func ReadFileFromUrl(url string) ([]byte, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %v", err)
	}

	// Set headers to prevent caching
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch file, status code: %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	return content, nil
}
