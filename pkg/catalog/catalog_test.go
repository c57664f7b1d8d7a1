package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	langs map[string]string
	err   error
}

func (f *fakeFetcher) Languages(ctx context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.langs, f.err
}

func TestDefault(t *testing.T) {
	def := Default()
	if len(def) != 8 {
		t.Fatalf("default catalog has %d entries, want 8", len(def))
	}
	for _, code := range []string{"en", "de", "fr", "es", "it", "pt", "ru", "zh"} {
		if !def.Has(code) {
			t.Errorf("default catalog missing %s", code)
		}
	}
}

func TestTargetsExcludeSource(t *testing.T) {
	opts := Default().Targets("en")
	if len(opts) != 7 {
		t.Fatalf("got %d targets, want 7", len(opts))
	}
	for i, o := range opts {
		if o.Code == "en" {
			t.Error("source language offered as a target")
		}
		if i > 0 && opts[i-1].Code >= o.Code {
			t.Errorf("targets not sorted: %s before %s", opts[i-1].Code, o.Code)
		}
	}
	if opts[0].Code != "de" || opts[0].Label() != "German (DE)" {
		t.Errorf("first option = %+v (%s)", opts[0], opts[0].Label())
	}
}

func TestLoadSuccessReplacesWholesale(t *testing.T) {
	f := &fakeFetcher{langs: map[string]string{"en": "English", "ja": "Japanese"}}
	l := NewLoader(f)

	cat := l.Load(context.Background())
	if len(cat) != 2 || cat["ja"] != "Japanese" {
		t.Errorf("catalog = %v", cat)
	}
	if cat.Has("de") {
		t.Error("fetched catalog must not be merged with the default")
	}
	if !l.Remote() {
		t.Error("Remote() = false after successful fetch")
	}
	opts := cat.Targets("en")
	if len(opts) != 1 || opts[0].Code != "ja" {
		t.Errorf("targets = %v", opts)
	}
}

func TestLoadFailureKeepsDefault(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	l := NewLoader(f)

	cat := l.Load(context.Background())
	if len(cat) != 8 {
		t.Errorf("catalog has %d entries after failure, want 8", len(cat))
	}
	if l.Remote() {
		t.Error("Remote() = true after failed fetch")
	}
	if n := len(cat.Targets("en")); n != 7 {
		t.Errorf("got %d targets after failure, want 7", n)
	}
}

func TestLoadRunsOnce(t *testing.T) {
	f := &fakeFetcher{err: errors.New("down")}
	l := NewLoader(f)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Load(context.Background())
		}()
	}
	wg.Wait()
	l.Load(context.Background())

	if f.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", f.calls)
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	l := NewLoader(nil)
	cat := l.Catalog()
	cat["xx"] = "Mutated"
	if l.Catalog().Has("xx") {
		t.Error("caller mutation leaked into the loader")
	}
}
