// Package slug derives URL and filesystem safe identifiers from titles and file names.
package slug

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify converts a string of arbitrary characters to a form suitable for use
// as an HTML identifier or a file name.
//
// A leading numeric ordering prefix ("01-") is removed along with the single
// separator that follows it. Whitespace and URL-reserved characters map to '-';
// everything else, including case, is preserved.
func Slugify(input string) string {
	toMap := input
	if offset := strings.IndexByte(input, '-'); offset > 0 && allDigits(input[:offset]) {
		toMap = input[offset+1:]
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		switch r {
		case '?', '&', '=', '\\', '/', '"':
			return '-'
		}
		return r
	}, toMap)
}

// SlugifyPath slugifies the file stem of the given path. Leading directories
// and the final extension are dropped.
func SlugifyPath(path string) string {
	if stem, ok := stem(path); ok {
		return Slugify(stem)
	}
	return Slugify(path)
}

// NormalisedExt returns the lower-cased extension of path, without the dot.
func NormalisedExt(path string) (string, bool) {
	base := baseName(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return "", false
	}
	return strings.ToLower(ext[1:]), true
}

// NormalisedStem returns the lower-cased stem of path: the base name with the
// final extension removed.
func NormalisedStem(path string) (string, bool) {
	s, ok := stem(path)
	if !ok {
		return "", false
	}
	return strings.ToLower(s), true
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// PrettifyDir produces a human readable title from a directory path. Ordering
// prefixes and separators are trimmed from the front, the remaining '-' and '_'
// become spaces, and each word is title cased.
func PrettifyDir(path string) string {
	base := baseName(path)
	trimmed := strings.TrimLeftFunc(base, func(r rune) bool {
		return unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	if trimmed == "" {
		return base
	}
	spaced := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, trimmed)
	return titleCaser.String(strings.Join(strings.Fields(spaced), " "))
}

func stem(path string) (string, bool) {
	base := baseName(path)
	if base == "" || base == "." || base == ".." {
		return "", false
	}
	ext := filepath.Ext(base)
	if ext == base {
		// dot files such as ".config" have no extension
		return base, true
	}
	return strings.TrimSuffix(base, ext), true
}

func baseName(path string) string {
	trimmed := strings.TrimRight(filepath.ToSlash(path), "/")
	if trimmed == "" {
		return ""
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
