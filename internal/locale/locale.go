// Package locale resolves the UI locale from the persisted preference, the
// environment, and a fallback chain.
package locale

import (
	"context"
	"errors"
	"os"
	"strings"

	"habitFlowClient/internal/prefs"
)

const Default = "en"

// Supported locales, full tags and bare languages.
var Supported = []string{"en", "en-GB", "es", "de", "fr", "pt-BR", "ja"}

// Resolve picks the active locale: persisted preference, then HABIT_LOCALE,
// then LANG, then the default. Unsupported tags fall back language-first
// ("en-AU" resolves to "en") before giving up.
func Resolve(ctx context.Context, p *prefs.Store) string {
	if p != nil {
		stored, err := p.Get(ctx, prefs.KeyLocale)
		if err == nil {
			if tag, ok := match(stored); ok {
				return tag
			}
		} else if !errors.Is(err, prefs.ErrNotFound) {
			return Default
		}
	}

	for _, env := range []string{"HABIT_LOCALE", "LANG"} {
		if v := os.Getenv(env); v != "" {
			if tag, ok := match(v); ok {
				return tag
			}
		}
	}
	return Default
}

// Set persists the locale preference after normalizing it.
func Set(ctx context.Context, p *prefs.Store, tag string) error {
	normalized, ok := match(tag)
	if !ok {
		normalized = Default
	}
	return p.Set(ctx, prefs.KeyLocale, normalized)
}

// match normalizes a tag ("en_GB.UTF-8" -> "en-GB") and resolves it against
// the supported set, falling back to the bare language.
func match(tag string) (string, bool) {
	tag = strings.SplitN(tag, ".", 2)[0]
	tag = strings.ReplaceAll(tag, "_", "-")
	if tag == "" || tag == "C" || tag == "POSIX" {
		return "", false
	}

	for _, s := range Supported {
		if strings.EqualFold(s, tag) {
			return s, true
		}
	}

	lang := strings.SplitN(tag, "-", 2)[0]
	for _, s := range Supported {
		if strings.EqualFold(s, lang) {
			return s, true
		}
	}
	return "", false
}
