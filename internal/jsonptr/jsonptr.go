// Package jsonptr implements RFC-6901 JSON Pointer decoding, encoding, and
// document navigation.
//
// No JSON Pointer or JSON Patch library appears anywhere in the retrieved
// example pack (checked against every go.mod under _examples/), so this
// package is deliberately built on the standard library alone: encoding/json
// already supplies the map[string]any/[]any document shape it walks, and the
// RFC's escaping rule is a two-substitution string transform that does not
// warrant a dependency.
package jsonptr

import "strings"

// Decode splits a JSON Pointer into its unescaped reference tokens. The
// empty pointer and "/" both address the document root and decode to a nil
// token slice.
func Decode(pointer string) []string {
	if pointer == "" || pointer == "/" {
		return nil
	}
	trimmed := strings.TrimPrefix(pointer, "/")
	rawTokens := strings.Split(trimmed, "/")
	tokens := make([]string, len(rawTokens))
	for i, tok := range rawTokens {
		tokens[i] = unescapeToken(tok)
	}
	return tokens
}

// Encode joins reference tokens into a JSON Pointer string. Encode is the
// inverse of Decode: Decode(Encode(tokens)) reproduces tokens, and for any
// valid pointer p, Encode(Decode(p)) reproduces p up to the root-pointer
// normalization ("" and "/" both decode to no tokens and re-encode as "").
func Encode(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(escapeToken(tok))
	}
	return b.String()
}

func escapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	tok = strings.ReplaceAll(tok, "/", "~1")
	return tok
}

func unescapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

// IsRoot reports whether pointer addresses the document root.
func IsRoot(pointer string) bool {
	return pointer == "" || pointer == "/"
}

// Get resolves pointer against doc and returns the value found there. ok is
// false when any intermediate segment is missing or not a container that
// could hold the next token.
func Get(doc any, pointer string) (value any, ok bool) {
	tokens := Decode(pointer)
	current := doc
	for _, tok := range tokens {
		switch node := current.(type) {
		case map[string]any:
			v, present := node[tok]
			if !present {
				return nil, false
			}
			current = v
		case []any:
			idx, valid := arrayIndex(tok, len(node))
			if !valid {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value at pointer within doc, creating intermediate objects as
// plain JSON objects (map[string]any) where segments are missing. doc must
// be a map[string]any (the engine only ever addresses JSON object
// documents). Set on the root pointer is a no-op and leaves doc unchanged,
// since a document cannot replace itself in place.
func Set(doc map[string]any, pointer string, value any) {
	tokens := Decode(pointer)
	if len(tokens) == 0 {
		return
	}
	parent := ensureParent(doc, tokens[:len(tokens)-1])
	if parent == nil {
		return
	}
	parent[tokens[len(tokens)-1]] = value
}

// Unset removes the value at pointer within doc, if present. Unset on the
// root pointer is a no-op.
func Unset(doc map[string]any, pointer string) {
	tokens := Decode(pointer)
	if len(tokens) == 0 {
		return
	}
	parent := findParent(doc, tokens[:len(tokens)-1])
	if parent == nil {
		return
	}
	delete(parent, tokens[len(tokens)-1])
}

// ensureParent walks tokens from doc, creating an empty map[string]any at
// each missing segment, and returns the container the final token should be
// applied against. Returns nil if an existing intermediate value is present
// but is not a map[string]any, since JSON Pointer writes never overwrite a
// non-container value implicitly.
func ensureParent(doc map[string]any, tokens []string) map[string]any {
	current := doc
	for _, tok := range tokens {
		next, present := current[tok]
		if !present {
			created := map[string]any{}
			current[tok] = created
			current = created
			continue
		}
		nextMap, isMap := next.(map[string]any)
		if !isMap {
			return nil
		}
		current = nextMap
	}
	return current
}

// findParent walks tokens from doc without creating anything, returning nil
// if any segment is missing or not a map[string]any.
func findParent(doc map[string]any, tokens []string) map[string]any {
	current := doc
	for _, tok := range tokens {
		next, present := current[tok]
		if !present {
			return nil
		}
		nextMap, isMap := next.(map[string]any)
		if !isMap {
			return nil
		}
		current = nextMap
	}
	return current
}

func arrayIndex(tok string, length int) (int, bool) {
	if tok == "-" || tok == "" {
		return 0, false
	}
	idx := 0
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
		idx = idx*10 + int(r-'0')
	}
	if idx >= length {
		return 0, false
	}
	return idx, true
}
