package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ai-translator/aitr/pkg/i18n"
	"github.com/ai-translator/aitr/pkg/workflow"
)

type Header struct {
	*tview.Flex
	info   *tview.Table
	title  *tview.TextView
	status *tview.TextView
	kind   workflow.Kind
}

func NewHeader() *Header {
	h := &Header{
		info:   tview.NewTable().SetSelectable(false, false),
		title:  tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
		status: tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight),
	}
	h.info.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)

	h.Flex = tview.NewFlex().
		AddItem(h.info, 0, 1, false).
		AddItem(h.title, 0, 1, false).
		AddItem(h.status, 0, 1, false)
	return h
}

func (h *Header) SetAppTitle(title string) {
	h.title.SetText("\n[aqua::b]" + tview.Escape(title) + "[-::-]")
	h.SetState(h.kind)
}

// SetInfo shows the server and where the language list came from.
func (h *Header) SetInfo(apiBase, catalogSource string, languages int) {
	labels := []string{i18n.T("server"), i18n.T("languages")}
	values := []string{apiBase, fmt.Sprintf("%d (%s)", languages, catalogSource)}

	h.info.Clear()
	for i, label := range labels {
		h.info.SetCell(i, 0, tview.NewTableCell(label+":").SetTextColor(tview.Styles.SecondaryTextColor))
		h.info.SetCell(i, 1, tview.NewTableCell(values[i]).SetTextColor(tview.Styles.PrimaryTextColor).SetAttributes(tcell.AttrBold))
	}
}

func (h *Header) SetState(kind workflow.Kind) {
	h.kind = kind
	color, label := "green", i18n.T("state_idle")
	switch kind {
	case workflow.InFlight:
		color, label = "yellow", i18n.T("state_in_flight")
	case workflow.Succeeded:
		label = i18n.T("state_succeeded")
	case workflow.Failed:
		color, label = "red", i18n.T("state_failed")
	}
	h.status.SetText(fmt.Sprintf("\n[%s]● %s", color, label))
}

// State is the attempt state the header currently shows.
func (h *Header) State() workflow.Kind {
	return h.kind
}
