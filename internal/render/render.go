// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render converts model prose fragments into HTML paragraph
// fragments for display.
//
// This is not a markdown renderer. The only constructs interpreted are
// **bold** spans and bullet-prefixed lines, which start a new
// paragraph instead of a list item. Everything else passes through
// escaped but otherwise untouched.
package render

import (
	"html"
	"regexp"
	"strings"
)

// boldPattern matches a **bold** span with no nested asterisks.
// Unmatched or malformed markers are left as literal characters.
var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// HTML formats a prose fragment as concatenated <p> elements. The
// empty string formats to the empty string, not an empty wrapper.
func HTML(text string) string {
	return strings.Join(Paragraphs(text), "")
}

// Paragraphs formats a prose fragment into paragraph-wrapped markup
// fragments, in order:
//
//  1. escape HTML metacharacters
//  2. replace **…** spans with <strong>…</strong>
//  3. split into chunks before any newline whose next non-blank
//     character is a bullet marker, so each bullet opens a paragraph
//  4. per chunk: trim, strip one leading bullet marker, convert the
//     remaining newlines to <br>
//  5. wrap each chunk in <p>
func Paragraphs(text string) []string {
	if text == "" {
		return nil
	}

	s := html.EscapeString(text)
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")

	var paragraphs []string
	for _, chunk := range splitBeforeBullets(s) {
		chunk = strings.TrimSpace(chunk)
		if strings.HasPrefix(chunk, "*") {
			chunk = strings.TrimSpace(chunk[1:])
		}
		if chunk == "" {
			continue
		}
		chunk = strings.ReplaceAll(chunk, "\n", "<br>")
		paragraphs = append(paragraphs, "<p>"+chunk+"</p>")
	}
	return paragraphs
}

// splitBeforeBullets splits s immediately before every newline that is
// followed, after optional spaces or tabs, by an asterisk. Bullet
// lines therefore start their own chunk while plain continuation lines
// stay attached to the chunk before them.
func splitBeforeBullets(s string) []string {
	var chunks []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if j < len(s) && s[j] == '*' {
			chunks = append(chunks, s[start:i])
			start = i
		}
	}
	return append(chunks, s[start:])
}
