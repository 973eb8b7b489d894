package insights

import (
	"strings"
	"unicode/utf8"
)

const (
	minTokenLen   = 4
	topicTokenCap = 10
	previewLen    = 120
)

var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "because": true,
	"been": true, "before": true, "being": true, "both": true, "could": true,
	"does": true, "each": true, "from": true, "have": true, "having": true,
	"here": true, "into": true, "just": true, "more": true, "most": true,
	"only": true, "other": true, "ours": true, "over": true, "same": true,
	"some": true, "such": true, "than": true, "that": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "very": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "will": true,
	"with": true, "would": true, "your": true,
}

// NormalizeText lowercases s, replaces everything outside [a-z0-9] and
// whitespace with a space, and collapses runs of whitespace.
func NormalizeText(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	space := true
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// TextTokens returns the distinct content words of s in first-seen order.
// Words shorter than four characters and stop words are dropped.
func TextTokens(s string) []string {
	normalized := NormalizeText(s)
	if normalized == "" {
		return []string{}
	}
	seen := make(map[string]bool)
	tokens := []string{}
	for _, w := range strings.Split(normalized, " ") {
		if len(w) < minTokenLen || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

// ParseTags splits a comma-separated tag field into lowercased, distinct tags.
func ParseTags(field string) []string {
	tags := []string{}
	if strings.TrimSpace(field) == "" {
		return tags
	}
	seen := make(map[string]bool)
	for _, t := range strings.Split(field, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// unique concatenates the given lists, keeping the first occurrence of each value.
func unique(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, v := range list {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// preview truncates content to previewLen runes, ending in "..." when
// truncated.
func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLen {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLen-3]) + "..."
}
