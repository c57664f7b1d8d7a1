package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{"http", "http://localhost:8000", false},
		{"https with path", "https://example.com/app/", false},
		{"relative", "/api", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.base, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient(%q) error = %v, wantErr %v", tt.base, err, tt.wantErr)
			}
		})
	}
}

func TestResolveAgainstOrigin(t *testing.T) {
	c, err := NewClient("https://example.com/app/index.html", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.resolve(languagesPath, nil); got != "https://example.com/api/languages" {
		t.Errorf("resolve = %s", got)
	}
}

func TestLanguages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/languages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"de":"German","fr":"French"}`))
	})

	langs, err := c.Languages(context.Background())
	if err != nil {
		t.Fatalf("Languages() error = %v", err)
	}
	if len(langs) != 2 || langs["de"] != "German" {
		t.Errorf("Languages() = %v", langs)
	}
}

func TestLanguagesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`},
		{"not an object", http.StatusOK, `["de","fr"]`},
		{"garbage", http.StatusOK, `<html>`},
		{"empty object", http.StatusOK, `{}`},
		{"non-string names", http.StatusOK, `{"de":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			if _, err := c.Languages(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/translate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if raw["text"] != "Hello" || raw["target_lang"] != "de" {
			t.Errorf("body = %v", raw)
		}
		if _, ok := raw["source_lang"]; ok {
			t.Error("source language must not be sent")
		}
		w.Write([]byte(`{"translated_text":"Hallo"}`))
	})

	got, err := c.Translate(context.Background(), "Hello", "de")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "Hallo" {
		t.Errorf("Translate() = %q, want Hallo", got)
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		malformed bool
	}{
		{"detail", http.StatusInternalServerError, `{"detail":"rate limited"}`, "rate limited", false},
		{"empty body", http.StatusInternalServerError, ``, GenericFailure, false},
		{"no detail field", http.StatusBadRequest, `{"error":"x"}`, GenericFailure, false},
		{"non-json error", http.StatusBadGateway, `Bad Gateway`, GenericFailure, false},
		{"validation list detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, GenericFailure, false},
		{"missing field", http.StatusOK, `{"result":"x"}`, "", true},
		{"broken json", http.StatusOK, `{"translated_text":`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Translate(context.Background(), "Hello", "de")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.malformed {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("expected ErrMalformed, got %v", err)
				}
				return
			}
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected StatusError, got %T %v", err, err)
			}
			if se.Code != tt.status {
				t.Errorf("Code = %d, want %d", se.Code, tt.status)
			}
			if se.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", se.Message(), tt.wantMsg)
			}
		})
	}
}

func TestTranslateEmptyResultIsValid(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translated_text":""}`))
	})
	got, err := c.Translate(context.Background(), "Hello", "de")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "" {
		t.Errorf("Translate() = %q", got)
	}
}

func TestTranslateContextCanceled(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Translate(ctx, "Hello", "de")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRecent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/translations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("limit = %s", r.URL.Query().Get("limit"))
		}
		w.Write([]byte(`[{"_id":"abc","input_text":"Hello","output_text":"Hallo","timestamp":"2024-05-01T10:11:12.345678","model":"Helsinki-NLP/opus-mt-en-de","input_length":5,"processing_time_ms":12.5}]`))
	})

	entries, err := c.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d", len(entries))
	}
	e := entries[0]
	if e.ID != "abc" || e.OutputText != "Hallo" || e.InputLength != 5 {
		t.Errorf("entry = %+v", e)
	}
	when, ok := e.When()
	if !ok {
		t.Fatal("When() failed to parse timestamp")
	}
	if when.Year() != 2024 || when.Month() != time.May || when.Second() != 12 {
		t.Errorf("When() = %v", when)
	}
}

func TestHistoryEntryWhen(t *testing.T) {
	tests := []struct {
		ts string
		ok bool
	}{
		{"2024-05-01T10:11:12Z", true},
		{"2024-05-01T10:11:12+02:00", true},
		{"2024-05-01T10:11:12", true},
		{"yesterday", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, ok := (HistoryEntry{Timestamp: tt.ts}).When(); ok != tt.ok {
			t.Errorf("When(%q) ok = %v, want %v", tt.ts, ok, tt.ok)
		}
	}
}
