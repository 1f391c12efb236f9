// Package messages holds the user-visible strings, localized with go-i18n.
package messages

import (
	"embed"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bfsiocr/models"
)

//go:embed locales/*.toml
var locales embed.FS

// Catalog is the loaded message bundle.
type Catalog struct {
	bundle *i18n.Bundle
}

// Load parses the embedded message files. defaultLang is used when a
// message is missing in the requested language.
func Load(defaultLang string) (*Catalog, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, "locales/"+e.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
	}
	return &Catalog{bundle: bundle}, nil
}

// Languages returns the tags with at least one message.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// Localizer picks messages for the accepted languages in preference order,
// typically a ?lang= override followed by the Accept-Language header.
func (c *Catalog) Localizer(langs ...string) *Localizer {
	tag, _ := language.MatchStrings(language.NewMatcher(c.bundle.LanguageTags()), langs...)
	base, _ := tag.Base()
	return &Localizer{
		l:   i18n.NewLocalizer(c.bundle, langs...),
		tag: language.Make(base.String()),
		p:   message.NewPrinter(tag),
	}
}

// Localizer renders messages in one request's language.
type Localizer struct {
	l   *i18n.Localizer
	tag language.Tag
	p   *message.Printer
}

// Language is the matched language, used for the html lang attribute.
func (l *Localizer) Language() string {
	return l.tag.String()
}

// Number formats v with the language's digit grouping.
func (l *Localizer) Number(v float64, decimals int) string {
	return l.p.Sprintf("%.*f", decimals, v)
}

// T renders a message. Missing ids render as the id itself so a typo is
// visible on screen instead of blank.
func (l *Localizer) T(id string, data map[string]any) string {
	msg, err := l.l.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil && msg == "" {
		return id
	}
	return msg
}

// Plural renders a message with plural forms selected by count.
func (l *Localizer) Plural(id string, count int, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Count"] = count
	msg, err := l.l.Localize(&i18n.LocalizeConfig{MessageID: id, PluralCount: count, TemplateData: data})
	if err != nil && msg == "" {
		return id
	}
	return msg
}

// Error renders err as a user-visible message keyed by its kind.
func (l *Localizer) Error(err error) string {
	var oe *models.OpError
	if !errors.As(err, &oe) {
		return l.T("unexpected_error", nil)
	}
	if oe.Kind == models.KindInvalidInput {
		switch {
		case oe.Field != "":
			return l.T("invalid_field", map[string]any{"Field": oe.Field}) + " (" + oe.Err.Error() + ")"
		case oe.Err != nil:
			return l.T("invalid_input", nil) + " (" + oe.Err.Error() + ")"
		}
	}
	return l.T(string(oe.Kind), nil)
}
