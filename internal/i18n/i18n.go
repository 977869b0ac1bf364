// Package i18n holds the user-facing message catalog. Hebrew is the
// product's primary locale; English is the fallback and the key space.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Locale identifies a supported UI language.
type Locale string

const (
	Hebrew  Locale = "he"
	English Locale = "en"
)

var cat = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range hebrew {
		if err := b.SetString(language.Hebrew, key, msg); err != nil {
			panic("i18n: bad catalog entry " + key + ": " + err.Error())
		}
	}
	return b
}

// Printer formats catalog messages for one locale.
type Printer struct {
	locale Locale
	p      *message.Printer
}

// NewPrinter returns a printer for locale; unknown locales print English.
func NewPrinter(locale Locale) *Printer {
	tag := language.English
	if locale == Hebrew {
		tag = language.Hebrew
	} else {
		locale = English
	}
	return &Printer{locale: locale, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Locale returns the printer's locale.
func (p *Printer) Locale() Locale {
	return p.locale
}

// T translates key, formatting any args into it.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// RTL reports whether the locale is written right to left.
func (p *Printer) RTL() bool {
	return p.locale == Hebrew
}

// MealType returns the localized label for a backend meal type.
func (p *Printer) MealType(t string) string {
	switch t {
	case "breakfast":
		return p.T(MsgBreakfast)
	case "lunch":
		return p.T(MsgLunch)
	case "dinner":
		return p.T(MsgDinner)
	case "snack":
		return p.T(MsgSnack)
	}
	return t
}

// StoolQuality returns the localized label for a backend stool quality value.
func (p *Printer) StoolQuality(q string) string {
	switch q {
	case "hard":
		return p.T(MsgStoolHard)
	case "normal":
		return p.T(MsgStoolNormal)
	case "soft":
		return p.T(MsgStoolSoft)
	case "diarrhea":
		return p.T(MsgStoolDiarrhea)
	}
	return q
}
