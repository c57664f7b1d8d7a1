package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ai-translator/aitr/pkg/catalog"
	"github.com/ai-translator/aitr/pkg/config"
	"github.com/ai-translator/aitr/pkg/db"
	"github.com/ai-translator/aitr/pkg/i18n"
	"github.com/ai-translator/aitr/pkg/log"
	"github.com/ai-translator/aitr/pkg/view"
	"github.com/ai-translator/aitr/pkg/workflow"
)

const (
	mainPage     = "main"
	helpPage     = "help"
	settingsPage = "settings"
	auditPage    = "audit"
	historyPage  = "history"
	noticePage   = "notice"
)

type App struct {
	*tview.Application
	Pages *tview.Pages
	Root  *tview.Flex

	Config     *config.Config
	Keys       *config.KeysFile
	Catalog    *catalog.Loader
	Controller *workflow.Controller
	Clipboard  view.Clipboard

	Header          *Header
	SourceLabel     *tview.TextView
	TargetDropDown  *tview.DropDown
	Input           *tview.TextArea
	Hint            *tview.TextView
	TranslateButton *tview.Button
	ClearButton     *tview.Button
	CopyButton      *tview.Button
	Result          *tview.TextView
	Flash           *tview.TextView
	ShortcutBar     *tview.TextView

	Help          *Help
	Settings      *Settings
	AuditViewer   *AuditViewer
	HistoryViewer *HistoryViewer

	backend *backendRef
	options []catalog.Option
	// syncing suppresses the dropdown callback while options are rebuilt.
	syncing   bool
	running   int32
	lastAudit atomic.Uint64
	// queue, when set, replaces the tview update queue.
	queue func(func())

	ctx    context.Context
	cancel context.CancelFunc
}

// dispatch runs f on the UI goroutine once the application is drawing, and
// inline before that.
func (a *App) dispatch(f func()) {
	switch {
	case a.queue != nil:
		a.queue(f)
	case atomic.LoadInt32(&a.running) == 1:
		go a.QueueUpdateDraw(f)
	default:
		f()
	}
}

// render brings every widget in line with the controller snapshot.
func (a *App) render() {
	snap := a.Controller.Snapshot()
	v := view.Derive(snap, a.Catalog.Catalog())

	if a.Input.GetText() != snap.Text {
		a.Input.SetText(snap.Text, true)
	}
	if i := view.SelectedIndex(a.options, snap.TargetLanguage); i >= 0 {
		if cur, _ := a.TargetDropDown.GetCurrentOption(); cur != i {
			a.syncing = true
			a.TargetDropDown.SetCurrentOption(i)
			a.syncing = false
		}
	}

	a.TranslateButton.SetLabel(v.StatusLabel)
	a.TranslateButton.SetDisabled(!v.TranslateEnabled)
	a.ClearButton.SetDisabled(!v.ClearEnabled)
	a.CopyButton.SetDisabled(!v.CopyEnabled)

	switch v.ResultKind {
	case view.ResultError:
		a.Result.SetTextColor(tcell.ColorRed)
	case view.ResultTranslation:
		a.Result.SetTextColor(tview.Styles.PrimaryTextColor)
	default:
		a.Result.SetTextColor(tcell.ColorGray)
	}
	a.Result.SetText(v.ResultText)
	a.Hint.SetText(v.SourceHint)
	a.Header.SetState(snap.State.Kind)
}

// View returns what the screen currently derives from the controller.
func (a *App) View() view.View {
	return view.Derive(a.Controller.Snapshot(), a.Catalog.Catalog())
}

// Translate starts a translation of the current input. The returned channel
// is closed when the attempt settles; it is nil when nothing was started.
func (a *App) Translate() <-chan struct{} {
	done, err := a.Controller.Translate(a.ctx)
	switch {
	case errors.Is(err, workflow.ErrEmptyText):
		a.Notice(i18n.T("empty_text_notice"))
	case errors.Is(err, workflow.ErrInFlight):
		a.Notice(i18n.T("in_flight_notice"))
	case err != nil:
		log.Warnf("Translate refused: %v", err)
	}
	a.render()
	return done
}

func (a *App) Clear() {
	if !a.View().ClearEnabled {
		return
	}
	a.Controller.Clear()
	a.audit(db.AuditEntry{Action: db.ActionClear})
	a.render()
	a.SetFocus(a.Input)
}

func (a *App) Copy() {
	v := a.View()
	ok, err := view.Copy(v, a.Clipboard, a)
	if err != nil {
		log.Warnf("Copy to clipboard failed: %v", err)
		return
	}
	if ok {
		a.audit(db.AuditEntry{
			Action:     db.ActionCopy,
			TargetLang: a.Controller.Snapshot().TargetLanguage,
			Details:    fmt.Sprintf("%d chars", utf8.RuneCountInString(v.ResultText)),
		})
	}
}

func (a *App) Cancel() {
	if !a.Controller.Cancel() {
		return
	}
	a.audit(db.AuditEntry{Action: db.ActionCancel, TargetLang: a.Controller.Snapshot().TargetLanguage})
	a.flashMsg(i18n.T("canceled"), false)
}

// Notice shows msg in a modal that must be dismissed before input resumes.
func (a *App) Notice(msg string) {
	prev := a.GetFocus()
	modal := tview.NewModal().
		SetText(msg).
		AddButtons([]string{i18n.T("ok")}).
		SetDoneFunc(func(int, string) {
			a.Pages.RemovePage(noticePage)
			if prev != nil {
				a.SetFocus(prev)
			}
		})
	a.Pages.AddPage(noticePage, modal, false, true)
	a.SetFocus(modal)
}

func (a *App) flashMsg(msg string, isError bool) {
	color := "[green]"
	if isError {
		color = "[red]"
	}
	text := color + tview.Escape(msg) + "[-]"
	a.Flash.SetText(text)

	time.AfterFunc(3*time.Second, func() {
		a.dispatch(func() {
			if a.Flash.GetText(false) == text {
				a.Flash.SetText("")
			}
		})
	})
}

// onSnapshot is the controller observer. It may run on a request goroutine.
func (a *App) onSnapshot(s workflow.Snapshot) {
	a.recordOutcome(s)
	a.dispatch(a.render)
}

// recordOutcome writes one audit row per settled attempt.
func (a *App) recordOutcome(s workflow.Snapshot) {
	var entry db.AuditEntry
	switch s.State.Kind {
	case workflow.Succeeded:
		entry = db.AuditEntry{Action: db.ActionTranslate, ResponseText: s.State.Translated}
	case workflow.Failed:
		entry = db.AuditEntry{Action: db.ActionFailed, Details: s.State.Message}
	default:
		return
	}
	if a.lastAudit.Swap(s.Generation) == s.Generation {
		return
	}
	entry.TargetLang = s.State.Request.TargetLanguage
	entry.RequestText = s.State.Request.Text
	a.audit(entry)
}

func (a *App) audit(entry db.AuditEntry) {
	if err := db.RecordAudit(entry); err != nil {
		log.Warnf("Failed to record audit %s: %v", entry.Action, err)
	}
}

// LoadCatalog performs the one catalog fetch and applies the result.
func (a *App) LoadCatalog() {
	cat := a.Catalog.Load(a.ctx)
	a.audit(db.AuditEntry{Action: db.ActionCatalog, Details: fmt.Sprintf("%d languages (%s)", len(cat), a.catalogSource())})
	a.dispatch(a.applyCatalog)
}

func (a *App) catalogSource() string {
	if a.Catalog.Remote() {
		return i18n.T("catalog_remote")
	}
	return i18n.T("catalog_default")
}

func (a *App) refreshHeader() {
	a.Header.SetInfo(a.backend.Load().BaseURL(), a.catalogSource(), len(a.Catalog.Catalog()))
}

func (a *App) applyCatalog() {
	cat := a.Catalog.Catalog()
	a.options = view.TargetOptions(cat, config.SourceLanguage)

	labels := make([]string, len(a.options))
	for i, o := range a.options {
		labels[i] = o.Label()
	}
	a.syncing = true
	a.TargetDropDown.SetOptions(labels, a.onTargetSelected)
	a.syncing = false

	target := a.Controller.Snapshot().TargetLanguage
	if view.SelectedIndex(a.options, target) < 0 && len(a.options) > 0 {
		log.Infof("Target %q not in catalog, falling back to %s", target, a.options[0].Code)
		if err := a.Controller.SetTargetLanguage(a.options[0].Code); err != nil {
			log.Warnf("Failed to select %s: %v", a.options[0].Code, err)
		}
	}

	a.refreshHeader()
	a.render()
}

func (a *App) onTargetSelected(_ string, index int) {
	if a.syncing || index < 0 || index >= len(a.options) {
		return
	}
	if err := a.Controller.SetTargetLanguage(a.options[index].Code); err != nil {
		log.Warnf("Rejected target %s: %v", a.options[index].Code, err)
	}
}

// Run starts the application with panic recovery (k9s pattern).
func (a *App) Run() error {
	defer func() {
		if err := recover(); err != nil {
			log.Errorf("PANIC RECOVERED: %v\n%s", err, debug.Stack())
			fmt.Fprintf(os.Stderr, "\n[FATAL] %s crashed: %v\n", config.AppName, err)
		}
	}()
	defer a.shutdown()

	log.Infof("Starting %s TUI against %s", config.AppName, a.Config.APIBase)
	return a.Application.Run()
}

func (a *App) shutdown() {
	a.Controller.Close()
	a.cancel()
}
