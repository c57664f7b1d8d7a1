package i18n

import (
	"embed"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/ai-translator/aitr/pkg/log"
)

//go:embed locales/active.*.toml
var localeFS embed.FS

var supported = []language.Tag{
	language.English,
	language.German,
	language.Korean,
}

var matcher = language.NewMatcher(supported)

var aliases = map[string]string{
	"english": "en",
	"german":  "de",
	"deutsch": "de",
	"korean":  "ko",
}

var (
	mu          sync.RWMutex
	bundle      *i18n.Bundle
	localizer   *i18n.Localizer
	currentLang = language.English
)

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, tag := range supported {
		file := "locales/active." + tag.String() + ".toml"
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Errorf("i18n: failed to load %s: %v", file, err)
		}
	}
	localizer = i18n.NewLocalizer(bundle, language.English.String())
}

// SetLanguage picks the closest supported UI language; anything unknown
// falls back to English.
func SetLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := aliases[lang]; ok {
		lang = alias
	}

	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	mu.Lock()
	currentLang = tag
	localizer = i18n.NewLocalizer(bundle, tag.String(), language.English.String())
	mu.Unlock()
}

func GetLanguage() string {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang.String()
}

// Supported lists the UI languages, for the settings form.
func Supported() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		out[i] = tag.String()
	}
	return out
}

// T returns the message for key, or key itself when it is unknown.
func T(key string) string {
	return Tf(key, nil)
}

// Tf renders a templated message.
func Tf(key string, data map[string]any) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Debugf("i18n: localize failed (key=%s): %v", key, err)
		return key
	}
	return msg
}
