package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUITester wraps a tview application with a simulation screen for automated testing.
type TUITester struct {
	App    *tview.Application
	Screen tcell.SimulationScreen
}

func NewTUITester() (*TUITester, error) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetSize(100, 30)
	app := tview.NewApplication().SetScreen(screen)
	return &TUITester{
		App:    app,
		Screen: screen,
	}, nil
}

// InjectKey simulates a key press.
func (t *TUITester) InjectKey(key tcell.Key, r rune, mod tcell.ModMask) {
	t.Screen.InjectKey(key, r, mod)
	time.Sleep(20 * time.Millisecond) // Give tview a moment to process
}

func (t *TUITester) TypeText(s string) {
	for _, r := range s {
		t.Screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	time.Sleep(20 * time.Millisecond)
}

// GetContent returns the text content of the simulation screen.
func (t *TUITester) GetContent() string {
	width, height := t.Screen.Size()
	var sb strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mainc, _, _, _ := t.Screen.GetContent(x, y)
			sb.WriteRune(mainc)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Run runs the application in a goroutine and returns a stop function.
func (t *TUITester) Run() func() {
	go func() {
		if err := t.App.Run(); err != nil {
			panic(err)
		}
	}()
	time.Sleep(50 * time.Millisecond)
	return func() {
		t.App.Stop()
	}
}

// AssertPage verifies that the current front page matches the expected one.
func (t *TUITester) AssertPage(tb testing.TB, pages *tview.Pages, expected string) {
	tb.Helper()
	name := make(chan string, 1)
	t.App.QueueUpdate(func() {
		front, _ := pages.GetFrontPage()
		name <- front
	})
	if front := <-name; front != expected {
		tb.Errorf("expected front page %s, got %s", expected, front)
	}
}

// WaitFor polls cond on the UI goroutine until it holds or timeout passes.
func (t *TUITester) WaitFor(tb testing.TB, timeout time.Duration, what string, cond func() bool) {
	tb.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		ok := make(chan bool, 1)
		t.App.QueueUpdate(func() { ok <- cond() })
		if <-ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	tb.Errorf("timed out waiting for %s", what)
}
