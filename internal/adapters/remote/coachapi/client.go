package coachapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/coach-cli/internal/domain"
	"github.com/bnema/coach-cli/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	UploadPath = "/upload_resume/"
	ChatPath   = "/chat/"

	maxResponseBytes = 4 << 20
	requestIDHeader  = "X-Request-ID"
)

// Client talks to the coaching service over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// RequestTimeout bounds each request when positive. Zero leaves requests
	// unbounded.
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

var _ ports.CoachService = Client{}

type chatRequest struct {
	Message string `json:"message"`
}

type errorBody struct {
	Detail any    `json:"detail"`
	Error  string `json:"error"`
}

func (c Client) UploadResume(ctx context.Context, req ports.UploadRequest) (ports.UploadResponse, error) {
	if req.Content == nil {
		return ports.UploadResponse{}, domain.ErrNoFileSelected
	}

	endpoint, err := buildAPIURL(c.BaseURL, UploadPath)
	if err != nil {
		return ports.UploadResponse{}, fmt.Errorf("%w: %w", domain.ErrUploadTransport, err)
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", req.FileName)
	if err != nil {
		return ports.UploadResponse{}, fmt.Errorf("%w: create file part: %w", domain.ErrUploadTransport, err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return ports.UploadResponse{}, fmt.Errorf("%w: read upload file: %w", domain.ErrUploadTransport, err)
	}
	if req.Domain != "" {
		if err := form.WriteField("domain", req.Domain); err != nil {
			return ports.UploadResponse{}, fmt.Errorf("%w: write domain field: %w", domain.ErrUploadTransport, err)
		}
	}
	if err := form.Close(); err != nil {
		return ports.UploadResponse{}, fmt.Errorf("%w: close multipart body: %w", domain.ErrUploadTransport, err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, body)
	if err != nil {
		return ports.UploadResponse{}, fmt.Errorf("%w: create upload request: %w", domain.ErrUploadTransport, err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.do(httpReq)
	if err != nil {
		return ports.UploadResponse{}, fmt.Errorf("%w: %w", domain.ErrUploadTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !successStatus(resp.StatusCode) {
		return ports.UploadResponse{}, fmt.Errorf("%w: %s", domain.ErrUploadRejected, describeFailure(resp))
	}

	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return ports.UploadResponse{}, fmt.Errorf("%w: decode upload response: %w", domain.ErrUploadRejected, err)
	}

	userID, _ := payload["user_id"].(string)
	if strings.TrimSpace(userID) == "" {
		return ports.UploadResponse{}, fmt.Errorf("%w: upload response has no user_id", domain.ErrUploadRejected)
	}
	parsed, _ := payload["parsed_resume"].(map[string]any)

	return ports.UploadResponse{UserID: userID, ParsedResume: domain.Document(parsed)}, nil
}

func (c Client) Chat(ctx context.Context, id domain.SessionID, message string) (map[string]any, error) {
	endpoint, err := buildAPIURL(c.BaseURL, ChatPath+url.PathEscape(string(id)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrChatTransport, err)
	}

	encoded, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("%w: encode chat request: %w", domain.ErrChatTransport, err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: create chat request: %w", domain.ErrChatTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrChatTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !successStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %s", domain.ErrChatRejected, describeFailure(resp))
	}

	var payload any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	fields, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: reply is %T, not an object", domain.ErrMalformedResponse, payload)
	}

	return fields, nil
}

func (c Client) do(req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.logger().Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return nil, err
	}

	c.logger().Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))
	return resp, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.RequestTimeout)
}

func successStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

func describeFailure(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	switch {
	case body.Error != "":
		return fmt.Sprintf("status %d: %s", resp.StatusCode, body.Error)
	case body.Detail != nil:
		return fmt.Sprintf("status %d: %v", resp.StatusCode, body.Detail)
	default:
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}

	return strings.TrimRight(parsed.String(), "/") + path, nil
}
