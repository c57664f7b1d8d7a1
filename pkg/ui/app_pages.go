package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ai-translator/aitr/pkg/catalog"
	"github.com/ai-translator/aitr/pkg/config"
	"github.com/ai-translator/aitr/pkg/i18n"
)

// actionOrder fixes the order of the shortcut bar, the help table and key
// matching.
var actionOrder = []string{
	config.ActionTranslate,
	config.ActionClear,
	config.ActionCopy,
	config.ActionCancel,
	config.ActionHelp,
	config.ActionSettings,
	config.ActionAudit,
	config.ActionHistory,
	config.ActionQuit,
}

// actionLabels are the i18n keys of the short labels in the shortcut bar.
var actionLabels = map[string]string{
	config.ActionTranslate: "translate",
	config.ActionClear:     "clear",
	config.ActionCopy:      "copy",
	config.ActionCancel:    "cancel",
	config.ActionHelp:      "help",
	config.ActionSettings:  "settings_title",
	config.ActionAudit:     "audit_logs",
	config.ActionHistory:   "history",
	config.ActionQuit:      "quit",
}

func (a *App) initPages() {
	a.SourceLabel = tview.NewTextView().SetDynamicColors(true)

	a.TargetDropDown = tview.NewDropDown()
	a.TargetDropDown.SetFieldWidth(24)

	a.Input = tview.NewTextArea()
	a.Input.SetBorder(true)
	a.Input.SetChangedFunc(func() {
		a.Controller.SetText(a.Input.GetText())
	})

	a.Hint = tview.NewTextView().SetTextColor(tcell.ColorYellow)

	a.TranslateButton = tview.NewButton("").SetSelectedFunc(func() { a.Translate() })
	a.ClearButton = tview.NewButton("").SetSelectedFunc(a.Clear)
	a.CopyButton = tview.NewButton("").SetSelectedFunc(a.Copy)

	buttons := tview.NewFlex().
		AddItem(a.TranslateButton, 0, 1, false).
		AddItem(nil, 2, 0, false).
		AddItem(a.ClearButton, 0, 1, false).
		AddItem(nil, 2, 0, false).
		AddItem(a.CopyButton, 0, 1, false)

	a.Result = tview.NewTextView().SetWrap(true).SetWordWrap(true)
	a.Result.SetBorder(true)

	a.Flash = tview.NewTextView().SetDynamicColors(true)

	a.ShortcutBar = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetTextAlign(tview.AlignCenter)

	languages := tview.NewFlex().
		AddItem(a.SourceLabel, 0, 1, false).
		AddItem(a.TargetDropDown, 0, 1, false)

	a.Root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.Header, 3, 0, false).
		AddItem(languages, 1, 0, false).
		AddItem(a.Input, 0, 1, true).
		AddItem(a.Hint, 1, 0, false).
		AddItem(buttons, 1, 0, false).
		AddItem(a.Result, 0, 1, false).
		AddItem(a.Flash, 1, 0, false).
		AddItem(a.ShortcutBar, 1, 0, false)

	a.Pages.AddPage(mainPage, a.Root, true, true)
	a.Pages.AddPage(helpPage, a.Help.Table, true, false)
	a.Pages.AddPage(settingsPage, a.Settings.Form, true, false)
	a.Pages.AddPage(auditPage, a.AuditViewer.Table, true, false)
	a.Pages.AddPage(historyPage, a.HistoryViewer.Table, true, false)

	a.relabel()
}

// relabel sets every translated label; called again after a language change.
func (a *App) relabel() {
	a.SourceLabel.SetText(fmt.Sprintf("%s: [::b]%s", i18n.T("source_label"),
		catalog.Option{Code: config.SourceLanguage, Name: catalog.Default()[config.SourceLanguage]}.Label()))
	a.TargetDropDown.SetLabel(i18n.T("target_label") + ": ")
	a.Input.SetTitle(fmt.Sprintf(" %s ", i18n.T("input_label")))
	a.Input.SetPlaceholder(i18n.T("input_placeholder"))
	a.ClearButton.SetLabel(i18n.T("clear"))
	a.CopyButton.SetLabel(i18n.T("copy"))
	a.Result.SetTitle(fmt.Sprintf(" %s ", i18n.T("result_title")))
	a.ShortcutBar.SetText(a.shortcutText())

	a.Header.SetAppTitle(i18n.T("app_title"))
	a.Help.Table.SetTitle(fmt.Sprintf(" %s ", i18n.T("help_title")))
	a.Settings.Form.SetTitle(fmt.Sprintf(" %s ", i18n.T("settings_title")))
	a.AuditViewer.Table.SetTitle(fmt.Sprintf(" %s ", i18n.T("audit_logs")))
	a.HistoryViewer.Table.SetTitle(fmt.Sprintf(" %s ", i18n.T("history_title")))
}

func (a *App) shortcutText() string {
	parts := make([]string, 0, len(actionOrder))
	for _, action := range actionOrder {
		kb, ok := a.Keys.Keys[action]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("[yellow]%s[white] %s", kb.ShortCut, i18n.T(actionLabels[action])))
	}
	return " " + strings.Join(parts, "  ") + " "
}

func (a *App) showMain() {
	a.Pages.SwitchToPage(mainPage)
	a.SetFocus(a.Input)
}

func (a *App) showPage(name string) {
	switch name {
	case auditPage:
		a.AuditViewer.Refresh()
	case historyPage:
		a.HistoryViewer.Load(a.ctx, a.backend, a.Config.HistoryLimit, a.dispatch)
	case settingsPage:
		a.Settings.Reset(a.Config)
	}
	a.Pages.SwitchToPage(name)
	if _, p := a.Pages.GetFrontPage(); p != nil {
		a.SetFocus(p)
	}
}

var actionPages = map[string]string{
	config.ActionHelp:     helpPage,
	config.ActionSettings: settingsPage,
	config.ActionAudit:    auditPage,
	config.ActionHistory:  historyPage,
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	front, _ := a.Pages.GetFrontPage()
	if front == noticePage {
		return event
	}
	action := a.actionFor(event)

	if front != mainPage {
		switch {
		case action == config.ActionQuit:
			a.Stop()
			return nil
		case event.Key() == tcell.KeyEscape, actionPages[action] == front:
			a.showMain()
			return nil
		case actionPages[action] != "":
			a.showPage(actionPages[action])
			return nil
		}
		return event
	}

	switch action {
	case config.ActionTranslate:
		a.Translate()
		return nil
	case config.ActionClear:
		a.Clear()
		return nil
	case config.ActionCopy:
		a.Copy()
		return nil
	case config.ActionCancel:
		a.Cancel()
		return nil
	case config.ActionQuit:
		a.Stop()
		return nil
	case "":
	default:
		a.showPage(actionPages[action])
		return nil
	}

	switch event.Key() {
	case tcell.KeyTab:
		a.cycleFocus(1)
		return nil
	case tcell.KeyBacktab:
		a.cycleFocus(-1)
		return nil
	}
	return event
}

func (a *App) actionFor(event *tcell.EventKey) string {
	for _, action := range actionOrder {
		if kb, ok := a.Keys.Keys[action]; ok && matchShortcut(event, kb.ShortCut) {
			return action
		}
	}
	return ""
}

// matchShortcut reports whether event is the key described by a keys.yaml
// shortcut such as "Ctrl-T", "F2", "Alt-x" or "q".
func matchShortcut(event *tcell.EventKey, shortcut string) bool {
	hasCtrl, hasShift, hasAlt, key := config.ParseShortcut(shortcut)
	if key == "" {
		return false
	}

	if hasCtrl {
		if len(key) != 1 {
			return false
		}
		c := unicode.ToUpper(rune(key[0]))
		if c < 'A' || c > 'Z' {
			return false
		}
		if event.Key() == tcell.KeyCtrlA+tcell.Key(c-'A') {
			return true
		}
		return event.Key() == tcell.KeyRune && event.Modifiers()&tcell.ModCtrl != 0 && unicode.ToUpper(event.Rune()) == c
	}

	if len(key) > 1 && (key[0] == 'F' || key[0] == 'f') {
		if n, err := strconv.Atoi(key[1:]); err == nil && n >= 1 && n <= 12 {
			return event.Key() == tcell.KeyF1+tcell.Key(n-1)
		}
	}
	if strings.EqualFold(key, "Esc") {
		return event.Key() == tcell.KeyEscape
	}

	r := []rune(key)
	if len(r) != 1 || event.Key() != tcell.KeyRune {
		return false
	}
	if hasAlt != (event.Modifiers()&tcell.ModAlt != 0) {
		return false
	}
	if hasShift {
		return event.Rune() == unicode.ToUpper(r[0])
	}
	return event.Rune() == r[0]
}

func (a *App) focusOrder() []tview.Primitive {
	return []tview.Primitive{a.Input, a.TargetDropDown, a.TranslateButton, a.ClearButton, a.CopyButton}
}

func (a *App) cycleFocus(step int) {
	order := a.focusOrder()
	current := a.GetFocus()
	next := 0
	for i, p := range order {
		if p == current {
			next = (i + step + len(order)) % len(order)
			break
		}
	}
	a.SetFocus(order[next])
}
