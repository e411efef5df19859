// Package parse turns raw command-line tokens into structured query
// and mutation criteria. The grammar is order-independent:
//
//	task [filter] <command> [modification]
//
// Tokens classify as sequential ids (digits only), sigil tags
// (+name/-name), key:value properties, or free title words. Malformed
// tokens never fail the parse; they degrade to plain text or are
// dropped, so downstream commands must tolerate partially populated
// records.
package parse

import (
	"strconv"
	"strings"
)

// SeparateSections splits args at the first token whose lower-cased
// form names a known command. Tokens before it form the filter
// section, tokens after it the modification section. Later
// command-like tokens stay ordinary tokens (they may be title words).
// ok is false when no token matches; the caller reports usage.
func SeparateSections(args []string, commands map[string]bool) (cmd string, filter, modification []string, ok bool) {
	for i, arg := range args {
		lower := strings.ToLower(arg)
		if commands[lower] {
			return lower, args[:i], args[i+1:], true
		}
	}
	return "", nil, nil, false
}

// ExtractIDs pulls digits-only tokens out of tokens and returns them
// as ints alongside the unmatched remainder in original order. A
// leading minus disqualifies a token; it classifies as a tag instead.
func ExtractIDs(tokens []string) (ids []int, rest []string) {
	for _, tok := range tokens {
		if !allDigits(tok) {
			rest = append(rest, tok)
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			rest = append(rest, tok)
			continue
		}
		ids = append(ids, n)
	}
	return ids, rest
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ExtractTags pulls tokens starting with '+' or '-' and keeps the
// whole token, sigil included.
func ExtractTags(tokens []string) (tags, rest []string) {
	for _, tok := range tokens {
		if len(tok) > 0 && (tok[0] == '+' || tok[0] == '-') {
			tags = append(tags, tok)
			continue
		}
		rest = append(rest, tok)
	}
	return tags, rest
}

// ExtractProperties pulls key:value tokens. A token qualifies when it
// contains a ':' anywhere except the final position; a trailing colon
// leaves the token as plain text. The split is on the first ':'; keys
// are whitespace-trimmed, values are stripped of surrounding single
// quotes and then trimmed. A repeated key keeps the last value.
func ExtractProperties(tokens []string) (props map[string]string, rest []string) {
	props = map[string]string{}
	for _, tok := range tokens {
		i := strings.Index(tok, ":")
		if i < 0 || i == len(tok)-1 {
			rest = append(rest, tok)
			continue
		}
		key := strings.TrimSpace(tok[:i])
		value := tok[i+1:]
		if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
			value = value[1 : len(value)-1]
		}
		props[key] = strings.TrimSpace(value)
	}
	return props, rest
}

// JoinTitle collapses the remaining free-text tokens, in their
// original relative order, into the title string.
func JoinTitle(tokens []string) string {
	return strings.Join(tokens, " ")
}
