package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TransportError is the single failure shape for all backend calls. It
// carries whatever response body text was recoverable; a failed body read
// never masks the underlying failure.
type TransportError struct {
	Status int    // 0 when the request never produced a response
	Body   string // best-effort response body text
	Err    error  // underlying transport error, if any
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, http.StatusText(e.Status))
}

func (e *TransportError) Unwrap() error { return e.Err }

// Detail returns the backend-supplied text suitable for appending to a
// user-facing message, or "" when nothing was recoverable.
func (e *TransportError) Detail() string { return strings.TrimSpace(e.Body) }

// AskRequest is the payload for the /get_answer operation. MemoryID is nil
// on the first turn of a session and the prior turn's token thereafter.
type AskRequest struct {
	Query     string  `json:"query"`
	User      string  `json:"user"`
	MemoryID  *string `json:"memory_id"`
	ModelName string  `json:"modelname"`
}

// SourceRef is a single document citation returned with an answer.
type SourceRef struct {
	Name string `json:"name"`
}

// Answer is the backend response to /get_answer.
type Answer struct {
	Answer   string      `json:"answer"`
	Source   []SourceRef `json:"source"`
	MemoryID string      `json:"memory_id"`
}

// Client issues the four backend operations against the Alpine AI server.
// All methods resolve exactly once and never retry; a re-try is always a
// user-initiated re-invocation.
type Client struct {
	BaseURL string
	HTTP    HTTPClient
}

// NewClient builds a transport client for the given base URL, falling back
// to the configured default when empty.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultServerURL
	}
	return &Client{BaseURL: baseURL, HTTP: getHTTPClient()}
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + path
}

func (c *Client) httpClient() HTTPClient {
	if c.HTTP != nil {
		return c.HTTP
	}
	return getHTTPClient()
}

// Ingest asks the server to (re)build its search index over previously
// uploaded documents. Returns the server's report text.
func (c *Client) Ingest(ctx context.Context) (string, error) {
	return c.getText(ctx, "/ingest")
}

// DownloadModel triggers a server-side model fetch. This can take a while;
// the provided context bounds the wait.
func (c *Client) DownloadModel(ctx context.Context) (string, error) {
	return c.getText(ctx, "/download_model")
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	reqID := shortRequestID()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	logDebug(fmt.Sprintf("[%s] GET %s", reqID, req.URL.String()))

	resp, err := c.httpClient().Do(req)
	if err != nil {
		logDebug(fmt.Sprintf("[%s] error: %v", reqID, err))
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	logDebug(fmt.Sprintf("[%s] %d %s", reqID, resp.StatusCode, http.StatusText(resp.StatusCode)))
	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Status: resp.StatusCode, Body: recoveredBody(body, readErr)}
	}
	if readErr != nil {
		return "", &TransportError{Status: resp.StatusCode, Err: readErr}
	}
	return string(body), nil
}

// UploadDocument sends a single file as a multipart POST to /upload_doc.
// The form field is named "document"; the server stores the file under the
// given filename.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (string, error) {
	reqID := shortRequestID()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", &TransportError{Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload_doc"), &buf)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	logDebug(fmt.Sprintf("[%s] POST %s (file %s)", reqID, req.URL.String(), filename))

	resp, err := c.httpClient().Do(req)
	if err != nil {
		logDebug(fmt.Sprintf("[%s] error: %v", reqID, err))
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	logDebug(fmt.Sprintf("[%s] %d %s", reqID, resp.StatusCode, http.StatusText(resp.StatusCode)))
	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Status: resp.StatusCode, Body: recoveredBody(body, readErr)}
	}
	if readErr != nil {
		return "", &TransportError{Status: resp.StatusCode, Err: readErr}
	}
	return string(body), nil
}

// AskQuestion submits one conversation turn. The memory token in the
// request correlates this turn with earlier ones server-side; the token in
// the response must be echoed on the next call.
func (c *Client) AskQuestion(ctx context.Context, ask AskRequest) (*Answer, error) {
	reqID := shortRequestID()

	payload, err := json.Marshal(ask)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/get_answer"), bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	logDebug(fmt.Sprintf("[%s] POST %s body=%s", reqID, req.URL.String(), string(payload)))

	resp, err := c.httpClient().Do(req)
	if err != nil {
		logDebug(fmt.Sprintf("[%s] error: %v", reqID, err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	logDebug(fmt.Sprintf("[%s] %d %s", reqID, resp.StatusCode, http.StatusText(resp.StatusCode)))
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Status: resp.StatusCode, Body: recoveredBody(body, readErr)}
	}
	if readErr != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: readErr}
	}

	var answer Answer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Body: string(body), Err: err}
	}
	return &answer, nil
}

// recoveredBody keeps whatever body text was readable before a failure.
func recoveredBody(body []byte, readErr error) string {
	if readErr != nil && len(body) == 0 {
		return ""
	}
	return string(body)
}

func shortRequestID() string {
	return uuid.New().String()[:8]
}
