package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ai-translator/aitr/pkg/config"
)

type Help struct {
	Table *tview.Table
}

// NewHelp lists the bindings from keys.yaml. Esc and the help key close it;
// both are handled by the application.
func NewHelp(keys *config.KeysFile) *Help {
	table := tview.NewTable().
		SetBorders(true).
		SetSelectable(false, false)

	table.SetCell(0, 0, tview.NewTableCell("Key").SetTextColor(tcell.ColorYellow).SetAttributes(tcell.AttrBold))
	table.SetCell(0, 1, tview.NewTableCell("Description").SetTextColor(tcell.ColorYellow).SetAttributes(tcell.AttrBold))

	row := 1
	for _, action := range actionOrder {
		kb, ok := keys.Keys[action]
		if !ok {
			continue
		}
		table.SetCell(row, 0, tview.NewTableCell(kb.ShortCut).SetTextColor(tcell.ColorAqua))
		table.SetCell(row, 1, tview.NewTableCell(kb.Description).SetTextColor(tcell.ColorWhite))
		row++
	}
	table.SetCell(row, 0, tview.NewTableCell("Tab").SetTextColor(tcell.ColorAqua))
	table.SetCell(row, 1, tview.NewTableCell("Move between input, language and buttons").SetTextColor(tcell.ColorWhite))
	table.SetCell(row+1, 0, tview.NewTableCell("Esc").SetTextColor(tcell.ColorAqua))
	table.SetCell(row+1, 1, tview.NewTableCell("Close current view").SetTextColor(tcell.ColorWhite))

	table.SetBorder(true)
	return &Help{Table: table}
}
