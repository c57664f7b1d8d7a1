// Package view derives what the screen shows from a workflow snapshot.
// Nothing here holds state or performs I/O besides the Copy action.
package view

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"

	"github.com/ai-translator/aitr/pkg/catalog"
	"github.com/ai-translator/aitr/pkg/i18n"
	"github.com/ai-translator/aitr/pkg/workflow"
)

// ResultKind tells the renderer how to style the result area.
type ResultKind int

const (
	ResultPlaceholder ResultKind = iota
	ResultTranslation
	ResultError
)

type View struct {
	TranslateEnabled bool
	ClearEnabled     bool
	CopyEnabled      bool
	Busy             bool
	StatusLabel      string
	ResultText       string
	ResultKind       ResultKind
	SourceHint       string
}

// minHintRunes keeps detection away from inputs too short to classify.
const minHintRunes = 16

// Derive computes the view for snap. cat is only used to name a detected
// language and may be nil.
func Derive(snap workflow.Snapshot, cat catalog.Catalog) View {
	hasText := strings.TrimSpace(snap.Text) != ""
	busy := snap.State.Kind == workflow.InFlight

	v := View{
		TranslateEnabled: hasText && !busy,
		ClearEnabled:     hasText,
		Busy:             busy,
		StatusLabel:      i18n.T("translate"),
		ResultText:       i18n.T("no_translation"),
		ResultKind:       ResultPlaceholder,
		SourceHint:       sourceHint(snap.Text, snap.SourceLanguage, cat),
	}
	if busy {
		v.StatusLabel = i18n.T("translating")
	}

	switch snap.State.Kind {
	case workflow.Succeeded:
		v.ResultText = snap.State.Translated
		v.ResultKind = ResultTranslation
		v.CopyEnabled = snap.State.Translated != ""
	case workflow.Failed:
		v.ResultText = i18n.Tf("error_result", map[string]any{"Message": snap.State.Message})
		v.ResultKind = ResultError
	}
	return v
}

// TargetOptions lists the selector entries; source is never offered.
func TargetOptions(cat catalog.Catalog, source string) []catalog.Option {
	return cat.Targets(source)
}

// SelectedIndex finds code among opts, or -1.
func SelectedIndex(opts []catalog.Option, code string) int {
	for i, o := range opts {
		if o.Code == code {
			return i
		}
	}
	return -1
}

func sourceHint(text, source string, cat catalog.Catalog) string {
	text = strings.TrimSpace(text)
	if source == "" || utf8.RuneCountInString(text) < minHintRunes {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	code := info.Lang.Iso6391()
	if code == "" || code == source {
		return ""
	}
	return i18n.Tf("source_hint", map[string]any{
		"Detected": languageName(code, info.Lang.String(), cat),
		"Source":   languageName(source, source, cat),
	})
}

func languageName(code, fallback string, cat catalog.Catalog) string {
	if name, ok := cat[code]; ok {
		return name
	}
	if name, ok := catalog.Default()[code]; ok {
		return name
	}
	return fallback
}
