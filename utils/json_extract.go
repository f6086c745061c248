package utils

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the greedy span from the first open bracket to the last
// matching close bracket in text, e.g. ExtractJSON(s, '[', ']') for arrays.
// Model replies often wrap the payload in prose or code fences.
func ExtractJSON(text string, openCh, closeCh byte) (string, bool) {
	start := strings.IndexByte(text, openCh)
	end := strings.LastIndexByte(text, closeCh)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// RepairJSON makes one attempt at recovering truncated JSON. It cuts raw after
// the last bracket that closed a complete value and appends the closers still
// open at that point. The result is returned only if it is valid JSON.
func RepairJSON(raw string) (string, bool) {
	var (
		stack    []byte
		cutStack []byte
		cut      = -1
		inString bool
		escaped  bool
	)

scan:
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 || !pairs(stack[len(stack)-1], c) {
				break scan
			}
			stack = stack[:len(stack)-1]
			cut = i + 1
			cutStack = append(cutStack[:0], stack...)
			if len(stack) == 0 {
				break scan
			}
		}
	}
	if cut < 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(raw[:cut])
	for j := len(cutStack) - 1; j >= 0; j-- {
		if cutStack[j] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	out := b.String()
	if !json.Valid([]byte(out)) {
		return "", false
	}
	return out, true
}

func pairs(openCh, closeCh byte) bool {
	return (openCh == '{' && closeCh == '}') || (openCh == '[' && closeCh == ']')
}
