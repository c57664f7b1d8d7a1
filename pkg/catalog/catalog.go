// Package catalog holds the set of target languages offered to the user and
// loads it from the translation service once per session.
package catalog

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/ai-translator/aitr/pkg/log"
)

// Catalog maps a language code ("de") to its display name ("German").
type Catalog map[string]string

// Default is used until, and unless, the service provides a catalog.
func Default() Catalog {
	return Catalog{
		"en": "English",
		"de": "German",
		"fr": "French",
		"es": "Spanish",
		"it": "Italian",
		"pt": "Portuguese",
		"ru": "Russian",
		"zh": "Chinese",
	}
}

func (c Catalog) Has(code string) bool {
	_, ok := c[code]
	return ok
}

// Option is one entry of the target-language selector.
type Option struct {
	Code string
	Name string
}

// Label renders "German (DE)".
func (o Option) Label() string {
	return o.Name + " (" + strings.ToUpper(o.Code) + ")"
}

// Targets lists every entry except source, ordered by code.
func (c Catalog) Targets(source string) []Option {
	codes := slices.Sorted(maps.Keys(c))
	opts := make([]Option, 0, len(codes))
	for _, code := range codes {
		if code == source {
			continue
		}
		opts = append(opts, Option{Code: code, Name: c[code]})
	}
	return opts
}

// Fetcher is the catalog endpoint of the translation service.
type Fetcher interface {
	Languages(ctx context.Context) (map[string]string, error)
}

// Loader owns the catalog. Load fetches at most once; there is no retry and
// no periodic refresh.
type Loader struct {
	fetcher Fetcher

	once    sync.Once
	mu      sync.RWMutex
	current Catalog
	remote  bool
}

func NewLoader(f Fetcher) *Loader {
	return &Loader{fetcher: f, current: Default()}
}

// Load performs the single fetch and returns the resulting catalog. A failed
// fetch is logged and leaves the default in place. Subsequent calls return
// the current catalog without touching the network.
func (l *Loader) Load(ctx context.Context) Catalog {
	l.once.Do(func() {
		if l.fetcher == nil {
			return
		}
		langs, err := l.fetcher.Languages(ctx)
		if err != nil {
			log.Warnf("Failed to fetch languages, using defaults: %v", err)
			return
		}
		fetched := make(Catalog, len(langs))
		maps.Copy(fetched, langs)

		l.mu.Lock()
		l.current = fetched
		l.remote = true
		l.mu.Unlock()
		log.Infof("Loaded %d languages from server", len(fetched))
	})
	return l.Catalog()
}

// Catalog returns a copy of the current catalog.
func (l *Loader) Catalog() Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.current)
}

// Remote reports whether the fetched catalog replaced the default.
func (l *Loader) Remote() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.remote
}
