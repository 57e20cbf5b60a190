package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go-agency-backend/internal/domain"
	"go-agency-backend/pkg/logger"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
)

const (
	// FallbackMessage is shown when the backend gives no usable message
	FallbackMessage = "Something went wrong. Please try again later."
	// SuccessMessage is used when the backend accepts without a message
	SuccessMessage = "Your submission has been received."
	// ResumePart is the multipart field carrying the attachment
	ResumePart = "resume"

	maxResponseBytes = 1 << 20
)

// Result is the uniform outcome of one submission round-trip
type Result struct {
	Success bool       `json:"success"`
	Data    ResultData `json:"data"`
}

type ResultData struct {
	Message string `json:"message"`
}

// Request is one call to the forms backend
type Request struct {
	Route      string
	Method     string // defaults to POST
	Fields     map[string]any
	Attachment *domain.Attachment
}

// Sender performs a submission and never fails outward; every failure is
// folded into an unsuccessful Result.
type Sender interface {
	Send(ctx context.Context, req Request) Result
}

// Client posts multipart submissions to the configured backend origin
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Sender = (*Client)(nil)

// NewClient creates a client for baseURL. A nil httpClient gets a plain
// client; no timeout is imposed here.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

type backendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Send performs exactly one request to <baseURL><route>
func (c *Client) Send(ctx context.Context, req Request) Result {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	log := logger.L().With("route", req.Route, "method", method)

	body, contentType, err := encodeMultipart(req.Fields, req.Attachment)
	if err != nil {
		log.Error("Failed to encode submission", "error", err)
		return failure("")
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Route, body)
	if err != nil {
		log.Error("Failed to create submission request", "error", err)
		return failure("")
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn("Submission request failed", "error", err)
		return failure("")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("Failed to read submission response", "status", resp.StatusCode, "error", err)
		return failure("")
	}

	var parsed backendResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		log.Warn("Malformed submission response", "status", resp.StatusCode, "error", err)
		return failure("")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Info("Submission rejected by backend", "status", resp.StatusCode)
		// a success body on an error status carries no usable reason
		if parsed.Success {
			return failure("")
		}
		return failure(parsed.Message)
	}
	if !parsed.Success {
		log.Info("Submission rejected by backend", "status", resp.StatusCode)
		return failure(parsed.Message)
	}

	message := strings.TrimSpace(parsed.Message)
	if message == "" {
		message = SuccessMessage
	}
	return Result{Success: true, Data: ResultData{Message: message}}
}

func failure(message string) Result {
	message = strings.TrimSpace(message)
	if message == "" {
		message = FallbackMessage
	}
	return Result{Success: false, Data: ResultData{Message: message}}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes one text part per defined field in name order and
// the attachment under ResumePart
func encodeMultipart(fields map[string]any, attachment *domain.Attachment) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if value == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.WriteField(name, formatValue(fields[name])); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if attachment != nil && len(attachment.Data) > 0 {
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			ResumePart, quoteEscaper.Replace(attachment.Filename)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create resume part: %w", err)
		}
		if _, err := part.Write(attachment.Data); err != nil {
			return nil, "", fmt.Errorf("write resume part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
