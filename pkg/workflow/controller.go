// Package workflow owns the text input, the selected target language and the
// state of the current translation attempt.
package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ai-translator/aitr/pkg/backend"
	"github.com/ai-translator/aitr/pkg/catalog"
	"github.com/ai-translator/aitr/pkg/log"
)

var (
	ErrEmptyText       = errors.New("text is empty")
	ErrInFlight        = errors.New("a translation is already running")
	ErrUnknownLanguage = errors.New("language not in catalog")
	ErrSourceLanguage  = errors.New("target cannot be the source language")
	ErrClosed          = errors.New("controller closed")
)

// Translator performs one translation request.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// CatalogSource provides the current language catalog.
type CatalogSource interface {
	Catalog() catalog.Catalog
}

type Options struct {
	SourceLanguage string
	TargetLanguage string
	// Timeout bounds each request; zero disables it.
	Timeout time.Duration
}

type Controller struct {
	translator Translator
	catalog    CatalogSource
	source     string
	timeout    time.Duration

	mu       sync.Mutex
	text     string
	target   string
	state    State
	gen      uint64
	stale    bool
	cancel   context.CancelFunc
	closed   bool
	observer func(Snapshot)
}

func NewController(t Translator, cat CatalogSource, opts Options) *Controller {
	return &Controller{
		translator: t,
		catalog:    cat,
		source:     opts.SourceLanguage,
		timeout:    opts.Timeout,
		target:     opts.TargetLanguage,
		state:      idleState(),
	}
}

// SetObserver registers fn to be called after every change. fn runs outside
// the controller lock, possibly on the request goroutine.
func (c *Controller) SetObserver(fn func(Snapshot)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

// SetTimeout applies to attempts started afterwards.
func (c *Controller) SetTimeout(d time.Duration) {
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Text:           c.text,
		TargetLanguage: c.target,
		SourceLanguage: c.source,
		State:          c.state,
		Generation:     c.gen,
	}
}

// commit must be called with c.mu held; it releases the lock and notifies.
func (c *Controller) commit() {
	snap := c.snapshotLocked()
	fn := c.observer
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (c *Controller) SetText(t string) {
	c.mu.Lock()
	c.text = t
	c.commit()
}

// SetTargetLanguage accepts any catalog code other than the source.
func (c *Controller) SetTargetLanguage(code string) error {
	if code == c.source {
		return ErrSourceLanguage
	}
	if c.catalog != nil && !c.catalog.Catalog().Has(code) {
		return ErrUnknownLanguage
	}
	c.mu.Lock()
	c.target = code
	c.commit()
	return nil
}

// Translate starts an attempt for the current text and target. It returns
// ErrEmptyText or ErrInFlight without side effects when the preconditions
// fail. The returned channel is closed once the attempt has been reconciled
// into the state.
func (c *Controller) Translate(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return nil, ErrClosed
	case strings.TrimSpace(c.text) == "":
		c.mu.Unlock()
		return nil, ErrEmptyText
	case c.state.Kind == InFlight:
		c.mu.Unlock()
		return nil, ErrInFlight
	}

	req := Request{Text: c.text, TargetLanguage: c.target}
	c.gen++
	gen := c.gen
	c.stale = false

	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	c.cancel = cancel
	c.state = inFlightState(req)
	log.Debugf("translate #%d started (target=%s, %d chars)", gen, req.TargetLanguage, len(req.Text))
	c.commit()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		out, err := c.translator.Translate(ctx, req.Text, req.TargetLanguage)
		c.resolve(gen, req, out, err)
	}()
	return done, nil
}

func (c *Controller) resolve(gen uint64, req Request, out string, err error) {
	c.mu.Lock()
	if gen != c.gen || c.state.Kind != InFlight {
		c.mu.Unlock()
		log.Debugf("translate #%d resolved after being superseded, dropped", gen)
		return
	}
	c.cancel = nil

	switch {
	case c.stale:
		c.stale = false
		c.state = idleState()
		log.Debugf("translate #%d discarded (stale)", gen)
	case err != nil:
		msg := ErrorMessage(err)
		c.state = failedState(req, msg)
		log.Warnf("translate #%d failed: %v", gen, err)
	default:
		c.state = succeededState(req, out)
		log.Infof("translate #%d succeeded (target=%s)", gen, req.TargetLanguage)
	}
	c.commit()
}

// Clear resets text and result. An in-flight attempt keeps the state
// InFlight until it resolves; its outcome is then discarded and the state
// becomes Idle.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.text = ""
	if c.state.Kind == InFlight {
		c.stale = true
	} else {
		c.state = idleState()
	}
	c.commit()
}

// Cancel aborts the in-flight request, if any. The attempt resolves to Idle.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelLocked()
}

func (c *Controller) cancelLocked() bool {
	if c.state.Kind != InFlight || c.cancel == nil {
		return false
	}
	c.stale = true
	c.cancel()
	return true
}

// Close cancels outstanding work; later Translate calls fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancelLocked()
}

// ErrorMessage maps a request error to the text shown after "Error: ".
func ErrorMessage(err error) string {
	var se *backend.StatusError
	switch {
	case errors.As(err, &se):
		return se.Message()
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	case errors.Is(err, backend.ErrMalformed):
		return backend.GenericFailure + ": " + err.Error()
	default:
		return err.Error()
	}
}
