package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/ai-translator/aitr/pkg/config"
	"github.com/ai-translator/aitr/pkg/i18n"
)

var logLevels = []string{"debug", "info", "warn", "error"}

type Settings struct {
	Form     *tview.Form
	OnSave   func(cfg *config.Config) error
	OnCancel func()
	OnError  func(err error)
}

func NewSettings(cfg *config.Config, onSave func(*config.Config) error, onCancel func()) *Settings {
	s := &Settings{
		Form:     tview.NewForm(),
		OnSave:   onSave,
		OnCancel: onCancel,
	}
	s.Form.SetBorder(true)
	s.Reset(cfg)
	return s
}

// Reset rebuilds the form from cfg in the current interface language.
func (s *Settings) Reset(cfg *config.Config) {
	languages := i18n.Supported()

	s.Form.Clear(true)
	s.Form.AddInputField(i18n.T("api_base"), cfg.APIBase, 40, nil, nil).
		AddInputField(i18n.T("request_timeout"), cfg.RequestTimeout.String(), 10, nil, nil).
		AddDropDown(i18n.T("ui_language"), languages, indexOr(languages, cfg.Language, 0), nil).
		AddDropDown(i18n.T("log_level"), logLevels, indexOr(logLevels, strings.ToLower(cfg.LogLevel), 1), nil).
		AddCheckbox(i18n.T("enable_audit"), cfg.EnableAudit, nil).
		AddInputField(i18n.T("history_limit"), strconv.Itoa(cfg.HistoryLimit), 5, tview.InputFieldInteger, nil).
		AddButton(i18n.T("save"), func() {
			newCfg, err := s.read(cfg)
			if err == nil && s.OnSave != nil {
				err = s.OnSave(newCfg)
			}
			if err != nil && s.OnError != nil {
				s.OnError(err)
			}
		}).
		AddButton(i18n.T("cancel"), func() {
			if s.OnCancel != nil {
				s.OnCancel()
			}
		})
}

// read returns a copy of base with the form values applied.
func (s *Settings) read(base *config.Config) (*config.Config, error) {
	cfg := *base

	cfg.APIBase = strings.TrimSpace(s.inputText("api_base"))

	timeout, err := time.ParseDuration(strings.TrimSpace(s.inputText("request_timeout")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i18n.T("request_timeout"), err)
	}
	cfg.RequestTimeout = timeout

	if dd, ok := s.Form.GetFormItemByLabel(i18n.T("ui_language")).(*tview.DropDown); ok {
		_, cfg.Language = dd.GetCurrentOption()
	}
	if dd, ok := s.Form.GetFormItemByLabel(i18n.T("log_level")).(*tview.DropDown); ok {
		_, cfg.LogLevel = dd.GetCurrentOption()
	}
	if cb, ok := s.Form.GetFormItemByLabel(i18n.T("enable_audit")).(*tview.Checkbox); ok {
		cfg.EnableAudit = cb.IsChecked()
	}

	limit, err := strconv.Atoi(strings.TrimSpace(s.inputText("history_limit")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i18n.T("history_limit"), err)
	}
	cfg.HistoryLimit = limit
	return &cfg, nil
}

func indexOr(list []string, v string, def int) int {
	if i := slices.Index(list, v); i >= 0 {
		return i
	}
	return def
}

func (s *Settings) inputText(key string) string {
	if f, ok := s.Form.GetFormItemByLabel(i18n.T(key)).(*tview.InputField); ok {
		return f.GetText()
	}
	return ""
}
