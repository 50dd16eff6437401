// Package i18n holds the French and English user-facing text
package i18n

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
	"golang.org/x/exp/maps"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Language is a supported UI language.
type Language string

const (
	French  Language = "fr"
	English Language = "en"

	// Default is used until the user picks a language.
	Default = French

	// SettingKey is the settings key the preference is stored under.
	SettingKey = "lang"
)

func (l Language) String() string {
	return string(l)
}

// Tag returns the BCP 47 tag used for number formatting and speech.
func (l Language) Tag() language.Tag {
	if l == English {
		return language.AmericanEnglish
	}
	return language.French
}

// ParseLanguage parses string to a Language const.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fr", "fr-fr", "french", "français":
		return French, nil
	case "en", "en-us", "english", "anglais":
		return English, nil
	default:
		return "", errs.New("unsupported language %q", s)
	}
}

// Translator looks up messages in one language.
type Translator struct {
	lang Language
}

func New(lang Language) *Translator {
	if lang != English {
		lang = French
	}
	return &Translator{lang: lang}
}

func (t *Translator) Language() Language {
	return t.lang
}

// T returns the message for key, or key itself when it is unknown.
func (t *Translator) T(key string) string {
	return Lookup(t.lang, key)
}

// Tf formats the message for key with args.
func (t *Translator) Tf(key string, args ...any) string {
	return Fmt(t.lang, key, args...)
}

// Lookup returns the message for key in lang, or key itself when it is
// unknown.
func Lookup(lang Language, key string) string {
	m, ok := catalog[key]
	if !ok {
		return key
	}
	if lang == English {
		return m.EN
	}
	return m.FR
}

// Fmt formats the message for key in lang with args.
func Fmt(lang Language, key string, args ...any) string {
	return fmt.Sprintf(Lookup(lang, key), args...)
}

// Keys returns the catalog keys in sorted order.
func Keys() []string {
	keys := maps.Keys(catalog)
	slices.Sort(keys)
	return keys
}

var spaceReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// FormatAmount rounds d to a whole number and groups thousands the way lang
// does.
func FormatAmount(lang Language, d decimal.Decimal) string {
	p := message.NewPrinter(lang.Tag())
	return spaceReplacer.Replace(p.Sprintf("%d", d.Round(0).IntPart()))
}

// FormatCurrency formats d as a French FCFA amount, e.g. "50 000 FCFA".
func FormatCurrency(d decimal.Decimal) string {
	return FormatAmount(French, d) + " FCFA"
}
