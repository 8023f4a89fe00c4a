// Package httpclient recognises page images by posting them to an OCR service.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
	"github.com/custodia-labs/docscan/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.OCREngine = (*Client)(nil)

// FormField is the multipart field carrying the image.
const FormField = "image"

// DefaultTimeout bounds a single OCR request when no HTTP client is supplied.
const DefaultTimeout = 120 * time.Second

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

// Client posts one image per request as multipart/form-data and
// expects {"text": ..., "confidence": ...} back.
type Client struct {
	URL string

	HTTPClient *http.Client

	// Limiter spaces requests; nil means unlimited.
	Limiter *rate.Limiter
}

type ocrResponse struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
	Error      string   `json:"error"`
	Details    string   `json:"details"`
}

// NewClient creates an OCR client. A zero timeout uses DefaultTimeout and a
// non-positive rate disables limiting.
func NewClient(url string, timeout time.Duration, ratePerSecond float64) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if ratePerSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return c
}

// Recognize sends img to the OCR service.
// Connection failures wrap domain.ErrTransport; a non-2xx answer is a *domain.EngineError.
func (c *Client) Recognize(ctx context.Context, img domain.PageImage) (domain.OCRResult, error) {
	if c.URL == "" {
		return domain.OCRResult{}, fmt.Errorf("ocr: %w: url required", domain.ErrInvalidInput)
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return domain.OCRResult{}, fmt.Errorf("ocr: waiting for rate limiter: %w", err)
		}
	}

	body, contentType, err := encodeImage(img)
	if err != nil {
		return domain.OCRResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("ocr: building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.OCRResult{}, fmt.Errorf("ocr: %w", ctxErr)
		}
		return domain.OCRResult{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	logger.Debug("OCR %s answered %d in %s", c.URL, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.OCRResult{}, engineError(resp)
	}

	var payload ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.OCRResult{}, &domain.EngineError{
			Status: resp.StatusCode,
			Detail: fmt.Sprintf("malformed response: %v", err),
		}
	}
	if payload.Error != "" {
		return domain.OCRResult{}, &domain.EngineError{Status: resp.StatusCode, Detail: detail(payload)}
	}

	var confidence float64
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}
	return domain.OCRResult{
		Text:       payload.Text,
		Confidence: domain.ClampConfidence(confidence),
	}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func encodeImage(img domain.PageImage) (io.Reader, string, error) {
	if len(img.Data) == 0 {
		return nil, "", fmt.Errorf("ocr: %w: empty image", domain.ErrInvalidInput)
	}
	mime := img.MIMEType
	if mime == "" {
		mime = mimetype.Detect(img.Data).String()
	}
	ext := ".img"
	if m := mimetype.Lookup(mime); m != nil && m.Extension() != "" {
		ext = m.Extension()
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, "page"+ext))
	header.Set("Content-Type", mime)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("ocr: encoding image: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("ocr: encoding image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("ocr: encoding image: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// engineError reads the failure body. JSON bodies contribute their
// details or error field; anything else is used as plain text.
func engineError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil && !errors.Is(err, io.EOF) {
		return &domain.EngineError{Status: resp.StatusCode, Detail: resp.Status}
	}
	var payload ocrResponse
	if json.Unmarshal(raw, &payload) == nil {
		if d := detail(payload); d != "" {
			return &domain.EngineError{Status: resp.StatusCode, Detail: d}
		}
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		text = resp.Status
	}
	return &domain.EngineError{Status: resp.StatusCode, Detail: text}
}

func detail(p ocrResponse) string {
	if p.Details != "" {
		return p.Details
	}
	return p.Error
}
