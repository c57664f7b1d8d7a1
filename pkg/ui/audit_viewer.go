package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ai-translator/aitr/pkg/db"
	"github.com/ai-translator/aitr/pkg/i18n"
)

const auditLimit = 100

type AuditViewer struct {
	Table *tview.Table
}

func NewAuditViewer() *AuditViewer {
	t := tview.NewTable().SetSelectable(true, false).SetSeparator('|').SetFixed(1, 0)
	t.SetBorder(true)
	return &AuditViewer{Table: t}
}

func (v *AuditViewer) Refresh() {
	v.Table.Clear()

	headers := []string{"TIME", "ACTION", "TARGET", "DETAILS"}
	for i, h := range headers {
		v.Table.SetCell(0, i, tview.NewTableCell(h).SetTextColor(tcell.ColorYellow).SetAttributes(tcell.AttrBold).SetSelectable(false))
	}

	if !db.Enabled() {
		v.Table.SetCell(1, 0, tview.NewTableCell(i18n.T("audit_disabled")).SetTextColor(tcell.ColorGray))
		return
	}

	logs, err := db.GetAuditLogs(auditLimit)
	if err != nil {
		v.Table.SetCell(1, 0, tview.NewTableCell(tview.Escape(fmt.Sprintf("Error: %v", err))).SetTextColor(tcell.ColorRed))
		return
	}

	for r, entry := range logs {
		v.Table.SetCell(r+1, 0, tview.NewTableCell(entry.Timestamp.Local().Format("2006-01-02 15:04:05")))
		v.Table.SetCell(r+1, 1, tview.NewTableCell(entry.Action).SetTextColor(actionColor(entry.Action)))
		v.Table.SetCell(r+1, 2, tview.NewTableCell(tview.Escape(entry.TargetLang)))
		v.Table.SetCell(r+1, 3, tview.NewTableCell(tview.Escape(auditDetails(entry))).SetExpansion(1))
	}
	if len(logs) > 0 {
		v.Table.Select(1, 0)
	}
}

func auditDetails(e db.AuditEntry) string {
	switch e.Action {
	case db.ActionTranslate:
		return fmt.Sprintf("%s -> %s", truncate(e.RequestText, 30), truncate(e.ResponseText, 30))
	case db.ActionFailed:
		return fmt.Sprintf("%s: %s", truncate(e.RequestText, 30), e.Details)
	default:
		return e.Details
	}
}

func actionColor(action string) tcell.Color {
	switch action {
	case db.ActionFailed:
		return tcell.ColorRed
	case db.ActionTranslate:
		return tcell.ColorGreen
	case db.ActionCopy:
		return tcell.ColorAqua
	case db.ActionCancel:
		return tcell.ColorYellow
	default:
		return tcell.ColorWhite
	}
}

// truncate shortens s to n runes on a single line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
