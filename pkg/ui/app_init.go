package ui

import (
	"context"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ai-translator/aitr/pkg/backend"
	"github.com/ai-translator/aitr/pkg/catalog"
	"github.com/ai-translator/aitr/pkg/config"
	"github.com/ai-translator/aitr/pkg/db"
	"github.com/ai-translator/aitr/pkg/i18n"
	"github.com/ai-translator/aitr/pkg/log"
	"github.com/ai-translator/aitr/pkg/view"
	"github.com/ai-translator/aitr/pkg/workflow"
)

// backendRef lets the settings page swap the client under running code.
type backendRef struct {
	p atomic.Pointer[backend.Client]
}

func newBackendRef(c *backend.Client) *backendRef {
	r := &backendRef{}
	r.p.Store(c)
	return r
}

func (r *backendRef) Load() *backend.Client   { return r.p.Load() }
func (r *backendRef) Store(c *backend.Client) { r.p.Store(c) }

func (r *backendRef) Translate(ctx context.Context, text, targetLang string) (string, error) {
	return r.p.Load().Translate(ctx, text, targetLang)
}

func (r *backendRef) Languages(ctx context.Context) (map[string]string, error) {
	return r.p.Load().Languages(ctx)
}

func (r *backendRef) Recent(ctx context.Context, limit int) ([]backend.HistoryEntry, error) {
	return r.p.Load().Recent(ctx, limit)
}

func NewApp() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewAppWithConfig(cfg)
}

func NewAppWithConfig(cfg *config.Config) (*App, error) {
	client, err := backend.NewClient(cfg.APIBase, nil)
	if err != nil {
		return nil, err
	}
	keys, err := config.LoadKeys()
	if err != nil {
		log.Warnf("Failed to load keys.yaml, using defaults: %v", err)
		keys = config.DefaultKeys()
	}
	return InitApp(tview.NewApplication(), cfg, keys, client, view.SystemClipboard{}), nil
}

func InitApp(tviewApp *tview.Application, cfg *config.Config, keys *config.KeysFile, client *backend.Client, clip view.Clipboard) *App {
	i18n.SetLanguage(cfg.Language)
	if keys == nil {
		keys = config.DefaultKeys()
	}

	ref := newBackendRef(client)
	loader := catalog.NewLoader(ref)
	ctrl := workflow.NewController(ref, loader, workflow.Options{
		SourceLanguage: config.SourceLanguage,
		TargetLanguage: cfg.TargetLanguage,
		Timeout:        cfg.RequestTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Application: tviewApp,
		Pages:       tview.NewPages(),
		Config:      cfg,
		Keys:        keys,
		Catalog:     loader,
		Controller:  ctrl,
		Clipboard:   clip,
		backend:     ref,
		ctx:         ctx,
		cancel:      cancel,
	}

	a.Header = NewHeader()
	a.Help = NewHelp(keys)
	a.Settings = NewSettings(cfg, a.applySettings, a.showMain)
	a.Settings.OnError = func(err error) {
		a.Notice(i18n.Tf("settings_invalid", map[string]any{"Error": err.Error()}))
	}
	a.AuditViewer = NewAuditViewer()
	a.HistoryViewer = NewHistoryViewer()

	a.initPages()
	a.applyCatalog()
	ctrl.SetObserver(a.onSnapshot)
	a.SetInputCapture(a.handleKey)

	// Switch to queued updates after the first draw and fetch the catalog
	// in the background (k9s pattern).
	a.SetAfterDrawFunc(func(screen tcell.Screen) {
		a.SetAfterDrawFunc(nil)
		atomic.StoreInt32(&a.running, 1)
		go a.LoadCatalog()
	})

	a.SetRoot(a.Pages, true)
	a.SetFocus(a.Input)
	return a
}

// applySettings validates, persists and applies cfg.
func (a *App) applySettings(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.APIBase != a.Config.APIBase {
		client, err := backend.NewClient(cfg.APIBase, nil)
		if err != nil {
			return err
		}
		a.backend.Store(client)
		log.Infof("API base changed to %s", cfg.APIBase)
	}
	if cfg.EnableAudit && !db.Enabled() {
		if err := db.Init(cfg.AuditPath); err != nil {
			log.Warnf("Failed to open audit log: %v", err)
		}
	} else if !cfg.EnableAudit && db.Enabled() {
		db.Close()
	}

	a.Controller.SetTimeout(cfg.RequestTimeout)
	i18n.SetLanguage(cfg.Language)
	log.SetLevel(cfg.LogLevel)
	a.Config = cfg

	if err := cfg.Save(); err != nil {
		return err
	}
	log.Infof("Settings saved to %s", config.GetConfigPath())

	a.relabel()
	a.refreshHeader()
	a.render()
	a.showMain()
	a.flashMsg(i18n.T("settings_saved"), false)
	return nil
}
