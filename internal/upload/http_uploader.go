package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

const defaultTimeout = 60 * time.Second

// HTTPUploader forwards the file to an upload endpoint as the multipart field
// "image" and reads the hosted URL from {success, message, data:{url}}.
type HTTPUploader struct {
	url        string
	httpClient *http.Client
}

func NewHTTPUploader(url string, timeout time.Duration) *HTTPUploader {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPUploader{url: url, httpClient: &http.Client{Timeout: timeout}}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (u *HTTPUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create form part: %w", err)
	}
	n, err := io.Copy(part, body)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !out.Success {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", &RejectedError{Message: msg}
	}
	if out.Data.URL == "" {
		return "", &RejectedError{Message: "no url in response"}
	}
	return out.Data.URL, nil
}
