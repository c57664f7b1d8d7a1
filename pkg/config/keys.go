package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Actions that can be bound in keys.yaml.
const (
	ActionTranslate = "translate"
	ActionClear     = "clear"
	ActionCopy      = "copy"
	ActionCancel    = "cancel"
	ActionHelp      = "help"
	ActionSettings  = "settings"
	ActionAudit     = "audit"
	ActionHistory   = "history"
	ActionQuit      = "quit"
)

// KeyBinding maps one action to a shortcut such as "Ctrl-T" or "F2".
type KeyBinding struct {
	ShortCut    string `yaml:"shortCut"`
	Description string `yaml:"description"`
}

type KeysFile struct {
	Keys map[string]KeyBinding `yaml:"keys"`
}

func DefaultKeys() *KeysFile {
	return &KeysFile{
		Keys: map[string]KeyBinding{
			ActionTranslate: {ShortCut: "Ctrl-T", Description: "Translate the input text"},
			ActionClear:     {ShortCut: "Ctrl-L", Description: "Clear input and result"},
			ActionCopy:      {ShortCut: "Ctrl-Y", Description: "Copy the translation to the clipboard"},
			ActionCancel:    {ShortCut: "Ctrl-X", Description: "Cancel the running translation"},
			ActionHelp:      {ShortCut: "F1", Description: "Show help"},
			ActionSettings:  {ShortCut: "F2", Description: "Open settings"},
			ActionAudit:     {ShortCut: "F3", Description: "Show the local audit log"},
			ActionHistory:   {ShortCut: "F4", Description: "Show recent translations from the server"},
			ActionQuit:      {ShortCut: "Ctrl-Q", Description: "Exit the application"},
		},
	}
}

func keysPath() string {
	return filepath.Join(filepath.Dir(GetConfigPath()), "keys.yaml")
}

// LoadKeys reads keys.yaml next to config.yaml, writing the defaults on
// first use. Missing actions keep their default binding; a broken file yields
// the defaults.
func LoadKeys() (*KeysFile, error) {
	keys := DefaultKeys()
	data, err := os.ReadFile(keysPath())
	if err != nil {
		if os.IsNotExist(err) {
			return keys, SaveKeys(keys)
		}
		return nil, err
	}

	var custom KeysFile
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return DefaultKeys(), nil
	}
	for action, kb := range custom.Keys {
		if _, ok := keys.Keys[action]; ok && kb.ShortCut != "" {
			def := keys.Keys[action]
			def.ShortCut = kb.ShortCut
			if kb.Description != "" {
				def.Description = kb.Description
			}
			keys.Keys[action] = def
		}
	}
	return keys, nil
}

func SaveKeys(keys *KeysFile) error {
	path := keysPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(keys)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ActionFor returns the action bound to shortcut, or "".
func (k *KeysFile) ActionFor(shortcut string) string {
	for action, kb := range k.Keys {
		if strings.EqualFold(kb.ShortCut, shortcut) {
			return action
		}
	}
	return ""
}

// ParseShortcut parses a shortcut string into modifiers and key
// Returns: hasCtrl, hasShift, hasAlt, key
func ParseShortcut(shortcut string) (bool, bool, bool, string) {
	hasCtrl := false
	hasShift := false
	hasAlt := false
	key := shortcut

	for {
		if len(key) > 5 && key[:5] == "Ctrl-" {
			hasCtrl = true
			key = key[5:]
		} else if len(key) > 6 && key[:6] == "Shift-" {
			hasShift = true
			key = key[6:]
		} else if len(key) > 4 && key[:4] == "Alt-" {
			hasAlt = true
			key = key[4:]
		} else {
			break
		}
	}

	return hasCtrl, hasShift, hasAlt, key
}
