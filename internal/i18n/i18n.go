// file: internal/i18n/i18n.go
// version: 1.0.0
// guid: 0dd36edb-cdbc-4fa1-b443-337030d60c9d

// Package i18n localizes user-facing messages. Message keys are the canonical
// English texts; pt-BR and en are supported.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	localePtBR = "pt-BR"
	localeEn   = "en"
)

// DefaultLocale is used when no configured or requested locale matches.
const DefaultLocale = localePtBR

var (
	supported = []language.Tag{language.BrazilianPortuguese, language.English}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.BrazilianPortuguese))
	for key, texts := range translations {
		pt, ok := texts[localePtBR]
		if !ok {
			pt = key
		}
		en, ok := texts[localeEn]
		if !ok {
			en = key
		}
		// Keys are constants, SetString only fails on malformed tags
		_ = b.SetString(language.BrazilianPortuguese, key, pt)
		_ = b.SetString(language.English, key, en)
	}
	return b
}

// SupportedLocales lists the locales with a full message set.
func SupportedLocales() []string {
	return []string{localePtBR, localeEn}
}

// Translator resolves Accept-Language preferences to message printers.
type Translator struct {
	fallback language.Tag
}

// NewTranslator creates a Translator whose fallback is defaultLocale.
// An empty defaultLocale selects DefaultLocale.
func NewTranslator(defaultLocale string) (*Translator, error) {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", defaultLocale, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("unsupported default locale %q (supported: %v)", defaultLocale, SupportedLocales())
	}
	return &Translator{fallback: supported[idx]}, nil
}

// Fallback returns the tag used when a request expresses no usable preference.
func (t *Translator) Fallback() language.Tag {
	return t.fallback
}

// Match picks the supported locale for an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return t.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.fallback
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return t.fallback
	}
	return supported[idx]
}

// Printer returns a message printer for the given Accept-Language header value.
func (t *Translator) Printer(acceptLanguage string) *message.Printer {
	return NewPrinter(t.Match(acceptLanguage))
}

// NewPrinter returns a printer bound to the message catalog.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// Sprintf localizes key for tag.
func Sprintf(tag language.Tag, key string, args ...any) string {
	return NewPrinter(tag).Sprintf(key, args...)
}
