package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseShortcut(t *testing.T) {
	tests := []struct {
		in               string
		ctrl, shift, alt bool
		key              string
	}{
		{"Ctrl-T", true, false, false, "T"},
		{"Shift-L", false, true, false, "L"},
		{"Ctrl-Alt-K", true, false, true, "K"},
		{"F2", false, false, false, "F2"},
		{"Ctrl-", false, false, false, "Ctrl-"},
	}
	for _, tt := range tests {
		ctrl, shift, alt, key := ParseShortcut(tt.in)
		if ctrl != tt.ctrl || shift != tt.shift || alt != tt.alt || key != tt.key {
			t.Errorf("ParseShortcut(%q) = %v %v %v %q", tt.in, ctrl, shift, alt, key)
		}
	}
}

func TestDefaultKeysCoverActions(t *testing.T) {
	keys := DefaultKeys()
	seen := map[string]string{}
	for _, action := range []string{
		ActionTranslate, ActionClear, ActionCopy, ActionCancel,
		ActionHelp, ActionSettings, ActionAudit, ActionHistory, ActionQuit,
	} {
		kb, ok := keys.Keys[action]
		if !ok || kb.ShortCut == "" {
			t.Errorf("action %s has no default shortcut", action)
			continue
		}
		if other, dup := seen[kb.ShortCut]; dup {
			t.Errorf("shortcut %s bound to both %s and %s", kb.ShortCut, other, action)
		}
		seen[kb.ShortCut] = action
	}
	if got := keys.ActionFor("ctrl-t"); got != ActionTranslate {
		t.Errorf("ActionFor(ctrl-t) = %q, want translate", got)
	}
	if got := keys.ActionFor("Ctrl-Z"); got != "" {
		t.Errorf("ActionFor(Ctrl-Z) = %q, want empty", got)
	}
}

func TestLoadKeysOverride(t *testing.T) {
	dir := t.TempDir()
	SetConfigPath(filepath.Join(dir, "config.yaml"))
	defer SetConfigPath("")

	data := "keys:\n  translate:\n    shortCut: F5\n  bogus:\n    shortCut: F6\n"
	if err := os.WriteFile(filepath.Join(dir, "keys.yaml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	keys, err := LoadKeys()
	if err != nil {
		t.Fatalf("LoadKeys failed: %v", err)
	}
	if keys.Keys[ActionTranslate].ShortCut != "F5" {
		t.Errorf("translate = %s, want F5", keys.Keys[ActionTranslate].ShortCut)
	}
	if keys.Keys[ActionTranslate].Description == "" {
		t.Error("description should fall back to default")
	}
	if _, ok := keys.Keys["bogus"]; ok {
		t.Error("unknown actions must be ignored")
	}
	if keys.Keys[ActionClear].ShortCut != "Ctrl-L" {
		t.Errorf("clear should keep default, got %s", keys.Keys[ActionClear].ShortCut)
	}
}

func TestLoadKeysWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	SetConfigPath(filepath.Join(dir, "config.yaml"))
	defer SetConfigPath("")

	keys, err := LoadKeys()
	if err != nil {
		t.Fatalf("LoadKeys failed: %v", err)
	}
	if keys.Keys[ActionCopy].ShortCut != "Ctrl-Y" {
		t.Errorf("copy = %s, want Ctrl-Y", keys.Keys[ActionCopy].ShortCut)
	}
	if _, err := os.Stat(filepath.Join(dir, "keys.yaml")); err != nil {
		t.Fatalf("keys.yaml not written: %v", err)
	}

	again, err := LoadKeys()
	if err != nil {
		t.Fatalf("second LoadKeys failed: %v", err)
	}
	if again.Keys[ActionQuit].ShortCut != keys.Keys[ActionQuit].ShortCut {
		t.Errorf("round trip changed quit: %s", again.Keys[ActionQuit].ShortCut)
	}
}
