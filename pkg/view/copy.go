package view

import (
	"github.com/atotto/clipboard"

	"github.com/ai-translator/aitr/pkg/i18n"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Notice(msg string)
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Copy puts the displayed translation on the clipboard and confirms it. It
// does nothing when copying is disabled and reports whether it copied.
func Copy(v View, cb Clipboard, n Notifier) (bool, error) {
	if !v.CopyEnabled || cb == nil {
		return false, nil
	}
	if err := cb.WriteText(v.ResultText); err != nil {
		if n != nil {
			n.Notice(i18n.Tf("copy_failed", map[string]any{"Error": err.Error()}))
		}
		return false, err
	}
	if n != nil {
		n.Notice(i18n.T("copied_notice"))
	}
	return true, nil
}
