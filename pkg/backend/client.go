package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"rag-console/internal/dto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IClient is the consumed backend contract. The backend is an opaque
// capability: it may answer a submission inline or defer to a task.
type IClient interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	FetchResult(ctx context.Context, taskId string) (*dto.TaskResultResponse, error)
	IndexStatus(ctx context.Context) (*dto.IndexStatusResponse, error)
	Upload(ctx context.Context, paths []string) (*dto.UploadResponse, error)
	ClearIndex(ctx context.Context) (*dto.ClearIndexResponse, error)
}

type HTTPClient struct {
	BaseURL string
	Client  *http.Client
	tracer  trace.Tracer
}

// Ensure HTTPClient implements IClient
var _ IClient = &HTTPClient{}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
		},
		tracer: otel.Tracer("rag-console/backend"),
	}
}

func (c *HTTPClient) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	ctx, span := c.tracer.Start(ctx, "backend.ask")
	defer span.End()
	span.SetAttributes(attribute.Int("top_k", req.TopK))

	var resp dto.AskResponse
	if err := c.postJSON(ctx, "/api/ask", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) FetchResult(ctx context.Context, taskId string) (*dto.TaskResultResponse, error) {
	ctx, span := c.tracer.Start(ctx, "backend.fetch_result")
	defer span.End()
	span.SetAttributes(attribute.String("task_id", taskId))

	var resp dto.TaskResultResponse
	if err := c.getJSON(ctx, "/api/result/"+taskId, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) IndexStatus(ctx context.Context) (*dto.IndexStatusResponse, error) {
	ctx, span := c.tracer.Start(ctx, "backend.index_status")
	defer span.End()

	var resp dto.IndexStatusResponse
	if err := c.getJSON(ctx, "/api/index/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Upload(ctx context.Context, paths []string) (*dto.UploadResponse, error) {
	ctx, span := c.tracer.Start(ctx, "backend.upload")
	defer span.End()
	span.SetAttributes(attribute.Int("files", len(paths)))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, path := range paths {
		if err := appendFilePart(writer, path); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	url := c.BaseURL + "/api/upload"
	req, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp dto.UploadResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ClearIndex(ctx context.Context) (*dto.ClearIndexResponse, error) {
	ctx, span := c.tracer.Start(ctx, "backend.clear_index")
	defer span.End()

	url := c.BaseURL + "/api/index/clear"
	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var resp dto.ClearIndexResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- transport helpers ---

func (c *HTTPClient) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func appendFilePart(writer *multipart.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return nil
}
