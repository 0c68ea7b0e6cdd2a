// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utilities, including the upload
// filename sanitizer.
package util

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// stemRegex matches characters not allowed in a filename stem
	stemRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// extRegex matches characters not allowed in a file extension
	extRegex = regexp.MustCompile(`[^a-z0-9]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// SanitizeFilename converts a raw upload filename into a safe bare filename.
// The result contains no path separators, no parent references, and only
// lowercase ASCII letters, digits, hyphens, and a single dotted extension.
// An unusable name degrades to "file".
func SanitizeFilename(name string) string {
	// Strip any path components, including Windows-style separators that
	// filepath.Base leaves alone on non-Windows hosts.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	stem = slugify(stem)
	if stem == "" {
		stem = "file"
	}

	ext = extRegex.ReplaceAllString(strings.ToLower(ext), "")
	if ext != "" {
		return stem + "." + ext
	}
	return stem
}

// slugify converts a string to a lowercase ASCII slug. Non-Latin scripts are
// transliterated, accents are decomposed and removed, and the remainder is
// reduced to letters, digits, and single hyphens.
func slugify(s string) string {
	// Transliterate non-Latin scripts to ASCII
	s = unidecode.Unidecode(s)

	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")
	result = stemRegex.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}
