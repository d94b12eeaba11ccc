package hostbridge

import (
	"embed"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/elpick/picker"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is used when the requested locale is not bundled.
const DefaultLocale = "en"

var textPolicy = bluemonday.StrictPolicy()

// LoadTexts returns the labels for locale, falling back to DefaultLocale.
// A region suffix ("fr-CA", "fr_FR") is ignored. Labels in overrideFile, if
// set, replace bundled ones. Every label is reduced to plain text.
func LoadTexts(locale, overrideFile string) (picker.Texts, error) {
	t, err := bundled(locale)
	if err != nil {
		return picker.Texts{}, err
	}
	if overrideFile != "" {
		data, err := os.ReadFile(overrideFile)
		if err != nil {
			return picker.Texts{}, fmt.Errorf("hostbridge: read locale file: %w", err)
		}
		var o picker.Texts
		if err := yaml.Unmarshal(data, &o); err != nil {
			return picker.Texts{}, fmt.Errorf("hostbridge: parse locale file: %w", err)
		}
		t = merge(t, o)
	}
	return sanitize(t), nil
}

// Locales lists the bundled locale names.
func Locales() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return out
}

func bundled(locale string) (picker.Texts, error) {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	data, err := localeFS.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		data, err = localeFS.ReadFile("locales/" + DefaultLocale + ".yaml")
		if err != nil {
			return picker.Texts{}, fmt.Errorf("hostbridge: default locale: %w", err)
		}
	}
	var t picker.Texts
	if err := yaml.Unmarshal(data, &t); err != nil {
		return picker.Texts{}, fmt.Errorf("hostbridge: parse locale %q: %w", lang, err)
	}
	return t, nil
}

func merge(base, o picker.Texts) picker.Texts {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&base.BtnCreateDisabledText, o.BtnCreateDisabledText)
	pick(&base.BtnCreateEnabledText, o.BtnCreateEnabledText)
	pick(&base.BtnManageText, o.BtnManageText)
	pick(&base.BtnShowRulesBoxText, o.BtnShowRulesBoxText)
	pick(&base.BtnHideRulesBoxText, o.BtnHideRulesBoxText)
	pick(&base.BtnQuitText, o.BtnQuitText)
	return base
}

func sanitize(t picker.Texts) picker.Texts {
	clean := func(s *string) {
		*s = strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(*s)))
	}
	clean(&t.BtnCreateDisabledText)
	clean(&t.BtnCreateEnabledText)
	clean(&t.BtnManageText)
	clean(&t.BtnShowRulesBoxText)
	clean(&t.BtnHideRulesBoxText)
	clean(&t.BtnQuitText)
	return t
}
