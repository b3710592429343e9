package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config for the structured-extraction client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g. "gpt-4o"
	Temperature float64       // low, deterministic-leaning; default 0.1
	Timeout     time.Duration // http client timeout
}

// Client implements CarbonExtractor against an OpenAI-compatible
// chat/completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// ExtractCarbonData sends the bounded request and parses the structured
// response. Any failure comes back as an error for the Service wrapper to
// degrade; this layer never fabricates entries.
func (c *Client) ExtractCarbonData(ctx context.Context, req ExtractRequest) (Result, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("gateway.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"document_type", req.DocumentType,
		"text_len", len(req.Text),
		"tables", len(req.Tables),
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": BuildSystemPrompt()},
			{"role": "user", "content": BuildUserPrompt(req) + "\n\nJSON Schema:\n" + mustJSON(BuildResultJSONSchema())},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("gateway.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("gateway.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, raw, fmt.Errorf("decode service response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("gateway.extract.no_choices",
			"req_id", rid, "raw", truncateStr(string(raw), 2<<10),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, raw, fmt.Errorf("no choices in service response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := ValidateJSONAgainstSchema(BuildResultJSONSchema(), content); err != nil {
		c.log.Error("gateway.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", truncateStr(string(content), 2<<10),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, content, fmt.Errorf("schema validation failed: %w", err)
	}

	var out Result
	if err := json.Unmarshal(content, &out); err != nil {
		c.log.Error("gateway.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, content, fmt.Errorf("unmarshal result: %w", err)
	}

	c.log.Info("gateway.extract.ok",
		"req_id", rid,
		"entries", len(out.Entries),
		"confidence", out.ExtractionConfidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("service http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("gateway.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("service status %d: %s", resp.StatusCode, truncateStr(string(raw), 2<<10))
	}
	return raw, nil
}

func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
