package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// analysisPrompt asks the service for moments in the exact line format the
// report parser understands.
const analysisPrompt = `Analyze this video and identify the most engaging moments.
For each moment, provide the information in EXACTLY this format:

MM:SS - MM:SS
Description: [Describe what happens in this clip]
Viral Potential: [Rate from 1-10]
Best Platforms: [List suitable social platforms]

Keep clips between 1-5 minutes long.
Let them make sense in context of the video.
Focus on moments that would be engaging on social media.`

// APIError represents a non-2xx response from the analyzer service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("analyzer request failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// HTTPClient talks to the analyzer's REST API: multipart file upload, status
// polling, and report generation.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			// Uploads carry whole videos; give them room.
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

func (c *HTTPClient) Submit(ctx context.Context, videoPath string) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("open video for upload: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(videoPath))
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read video for upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/files", &body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Info("uploading video to analyzer", "path", videoPath, "bytes", body.Len())

	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("analyzer returned empty file id")
	}
	return result.ID, nil
}

func (c *HTTPClient) Poll(ctx context.Context, handle string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/files/"+handle, nil)
	if err != nil {
		return StatusFailed, fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var result struct {
		State string `json:"state"`
	}
	if err := c.do(req, &result); err != nil {
		return StatusFailed, err
	}

	switch result.State {
	case "ACTIVE":
		return StatusReady, nil
	case "PENDING", "PROCESSING":
		return StatusPending, nil
	default:
		c.logger.Warn("analyzer reported unexpected file state", "state", result.State)
		return StatusFailed, nil
	}
}

func (c *HTTPClient) Report(ctx context.Context, handle string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"file_id": handle,
		"prompt":  analysisPrompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var result struct {
		Text string `json:"text"`
	}
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	return result.Text, nil
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analyzer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode analyzer response: %w", err)
	}
	return nil
}
