package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ai-translator/aitr/pkg/backend"
	"github.com/ai-translator/aitr/pkg/i18n"
	"github.com/ai-translator/aitr/pkg/log"
)

// HistorySource is the recent-translations endpoint of the service.
type HistorySource interface {
	Recent(ctx context.Context, limit int) ([]backend.HistoryEntry, error)
}

type HistoryViewer struct {
	Table *tview.Table
}

func NewHistoryViewer() *HistoryViewer {
	t := tview.NewTable().SetSelectable(true, false).SetSeparator('|').SetFixed(1, 0)
	t.SetBorder(true)
	return &HistoryViewer{Table: t}
}

// Load shows a placeholder and fetches in the background; dispatch
// delivers the result to the UI goroutine.
func (v *HistoryViewer) Load(ctx context.Context, src HistorySource, limit int, dispatch func(func())) {
	v.setHeaders()
	v.Table.SetCell(1, 0, tview.NewTableCell(i18n.T("loading")).SetTextColor(tcell.ColorGray))

	go func() {
		entries, err := src.Recent(ctx, limit)
		if err != nil {
			log.Warnf("Failed to load history: %v", err)
		}
		dispatch(func() { v.Show(entries, err) })
	}()
}

func (v *HistoryViewer) setHeaders() {
	v.Table.Clear()
	headers := []string{"TIME", "MODEL", "INPUT", "OUTPUT", "MS"}
	for i, h := range headers {
		v.Table.SetCell(0, i, tview.NewTableCell(h).SetTextColor(tcell.ColorYellow).SetAttributes(tcell.AttrBold).SetSelectable(false))
	}
}

func (v *HistoryViewer) Show(entries []backend.HistoryEntry, err error) {
	v.setHeaders()
	if err != nil {
		msg := i18n.Tf("history_error", map[string]any{"Error": err.Error()})
		v.Table.SetCell(1, 0, tview.NewTableCell(tview.Escape(msg)).SetTextColor(tcell.ColorRed))
		return
	}
	if len(entries) == 0 {
		v.Table.SetCell(1, 0, tview.NewTableCell(i18n.T("history_empty")).SetTextColor(tcell.ColorGray))
		return
	}

	for r, e := range entries {
		ts := e.Timestamp
		if t, ok := e.When(); ok {
			ts = t.Local().Format("2006-01-02 15:04:05")
		}
		v.Table.SetCell(r+1, 0, tview.NewTableCell(ts))
		v.Table.SetCell(r+1, 1, tview.NewTableCell(tview.Escape(e.Model)).SetTextColor(tcell.ColorAqua))
		v.Table.SetCell(r+1, 2, tview.NewTableCell(tview.Escape(truncate(e.InputText, 40))).SetExpansion(1))
		v.Table.SetCell(r+1, 3, tview.NewTableCell(tview.Escape(truncate(e.OutputText, 40))).SetExpansion(1))
		v.Table.SetCell(r+1, 4, tview.NewTableCell(formatMillis(e.ProcessingTimeMs)).SetAlign(tview.AlignRight))
	}
	v.Table.Select(1, 0)
}

func formatMillis(ms float64) string {
	if ms <= 0 {
		return "-"
	}
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", ms/1000)
	}
	return strconv.Itoa(int(ms))
}
