package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	languagesPath    = "/api/languages"
	translatePath    = "/api/translate"
	translationsPath = "/api/translations"
)

// GenericFailure is shown when a failed response carries no usable detail.
const GenericFailure = "Translation failed"

// ErrMalformed marks a 2xx response whose body could not be used.
var ErrMalformed = errors.New("malformed response")

// Client talks to the translation service. Paths are resolved against base
// the way a browser resolves them against the page origin.
type Client struct {
	base       *url.URL
	httpClient *http.Client
}

type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

type TranslateResponse struct {
	TranslatedText *string `json:"translated_text"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// HistoryEntry is one row of the server's translation log.
type HistoryEntry struct {
	ID               string  `json:"_id"`
	InputText        string  `json:"input_text"`
	OutputText       string  `json:"output_text"`
	Timestamp        string  `json:"timestamp"`
	Model            string  `json:"model,omitempty"`
	InputLength      int     `json:"input_length,omitempty"`
	ProcessingTimeMs float64 `json:"processing_time_ms,omitempty"`
}

// isoLayouts covers Python's datetime.isoformat with and without an offset.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// When parses Timestamp; naive timestamps are taken as UTC.
func (h HistoryEntry) When() (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, h.Timestamp); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Message())
}

// Message is the human-readable text for the result area.
func (e *StatusError) Message() string {
	if e.Detail == "" {
		return GenericFailure
	}
	return e.Detail
}

// NewClient parses base; a nil httpClient means http.DefaultClient.
func NewClient(base string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("invalid api base %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base %q: need scheme and host", base)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: u, httpClient: httpClient}, nil
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) resolve(path string, query url.Values) string {
	ref := &url.URL{Path: path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return c.base.ResolveReference(ref).String()
}

// Languages fetches the code -> display name map.
func (c *Client) Languages(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(languagesPath, nil), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var langs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("%w: empty language list", ErrMalformed)
	}
	return langs, nil
}

// Translate posts {text, target_lang}; the source language is implied by
// the server.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	body, err := json.Marshal(TranslateRequest{Text: text, TargetLang: targetLang})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(translatePath, nil), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(resp)
	}

	var out TranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if out.TranslatedText == nil {
		return "", fmt.Errorf("%w: missing translated_text", ErrMalformed)
	}
	return *out.TranslatedText, nil
}

// Recent returns the server's newest translations, newest first.
func (c *Client) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(translationsPath, q), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var entries []HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return entries, nil
}

func statusError(resp *http.Response) *StatusError {
	se := &StatusError{Code: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return se
	}
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil {
		se.Detail = strings.TrimSpace(eb.Detail)
	}
	return se
}
