// Package locales holds the user-facing message catalogs. Russian is the
// default; English is served when the locale middleware picks it.
package locales

import (
	_ "embed"
	"encoding/json"
	"log"
)

//go:embed ru.json
var ruJSON []byte

//go:embed en.json
var enJSON []byte

type catalog map[string]string

var catalogs = map[string]catalog{}

func init() {
	for locale, raw := range map[string][]byte{"ru": ruJSON, "en": enJSON} {
		c := catalog{}
		if err := json.Unmarshal(raw, &c); err != nil {
			log.Fatalf("locales: parse %s catalog: %v", locale, err)
		}
		catalogs[locale] = c
	}
}

// Message returns the catalog entry for the locale, falling back to Russian
// and then to the key itself so a missing entry is visible, not fatal.
func Message(locale, key string) string {
	if c, ok := catalogs[locale]; ok {
		if msg, ok := c[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs["ru"][key]; ok {
		return msg
	}
	return key
}

// Supported reports whether a catalog exists for the locale.
func Supported(locale string) bool {
	_, ok := catalogs[locale]
	return ok
}
