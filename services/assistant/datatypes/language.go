// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"sort"
	"strings"
)

// languageCodes is the fixed lookup of supported language names to
// ISO 639-1 codes. The router uses it to spot explicit language-change
// requests; the executor uses it to normalize settings values.
var languageCodes = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"polish":     "pl",
	"russian":    "ru",
	"ukrainian":  "uk",
	"chinese":    "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"arabic":     "ar",
	"hebrew":     "he",
}

// LanguageCode maps a full language name (any casing) to its ISO code.
func LanguageCode(name string) (string, bool) {
	code, ok := languageCodes[strings.ToLower(name)]
	return code, ok
}

// LanguageNames returns the supported full names, sorted, for building
// match patterns. The slice is a copy.
func LanguageNames() []string {
	out := make([]string, 0, len(languageCodes))
	for name := range languageCodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsLanguageCode reports whether s already is one of the ISO codes the
// lookup produces, which makes normalization idempotent.
func IsLanguageCode(s string) bool {
	for _, code := range languageCodes {
		if s == code {
			return true
		}
	}
	return false
}
