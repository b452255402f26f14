package chain

import (
	"fmt"
	"strings"
)

// Parse parses a raw context chain string. fallbackBase seeds the Base field
// when the input is cursor-dependent (no explicit base@ segment); it does not
// affect fully-qualified chains. Parse performs no I/O and is safe to call
// concurrently.
//
// Grammar: <@|%|#>[base@]container.subcontainer.<var|doc>.tail
func Parse(raw, fallbackBase string) (Chain, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Chain{}, ErrEmptyChain
	}

	var mode Mode
	switch raw[0] {
	case '@':
		mode = Persistent
	case '%':
		mode = Ephemeral
	case '#':
		mode = Action
	default:
		return Chain{}, fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
	body := raw[1:]

	base := fallbackBase
	fullyQualified := false
	rest := body
	if basePart, restPart, found := strings.Cut(body, "@"); found {
		if basePart == "" {
			return Chain{}, fmt.Errorf("%w: %q", ErrEmptyBase, raw)
		}
		if strings.ContainsAny(basePart[:1], "@%#") {
			return Chain{}, fmt.Errorf("%w: %q", ErrBasePrefixed, basePart)
		}
		if !validIdentifier(basePart) {
			return Chain{}, fmt.Errorf("%w: base %q", ErrInvalidIdentifier, basePart)
		}
		if restPart == "" {
			return Chain{}, fmt.Errorf("%w: nothing after base in %q", ErrMalformedBase, raw)
		}
		base = basePart
		rest = restPart
		fullyQualified = true
	}

	segments := strings.Split(rest, ".")
	if len(segments) != 4 {
		return Chain{}, fmt.Errorf("%w: got %d in %q", ErrSegmentCount, len(segments), rest)
	}

	container, subcontainer, anchorToken, tail := segments[0], segments[1], segments[2], segments[3]

	for _, seg := range []struct{ name, value string }{
		{"container", container},
		{"subcontainer", subcontainer},
		{"tail", tail},
	} {
		if seg.value == "" {
			return Chain{}, fmt.Errorf("%w: %s in %q", ErrEmptySegment, seg.name, rest)
		}
		if !validIdentifier(seg.value) {
			return Chain{}, fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, seg.name, seg.value)
		}
		if reservedWord(seg.value) {
			return Chain{}, fmt.Errorf("%w: %s %q", ErrReservedWord, seg.name, seg.value)
		}
	}

	anchor, ok := parseAnchor(anchorToken)
	if !ok {
		return Chain{}, fmt.Errorf("%w: %q", ErrInvalidAnchor, anchorToken)
	}

	return Chain{
		Base:           base,
		Container:      container,
		Subcontainer:   subcontainer,
		Anchor:         anchor,
		Tail:           tail,
		Mode:           mode,
		FullyQualified: fullyQualified,
	}, nil
}

// parseAnchor normalizes an anchor token case-insensitively.
func parseAnchor(token string) (Anchor, bool) {
	switch strings.ToLower(token) {
	case "var":
		return Variable, true
	case "doc":
		return Document, true
	}
	return Variable, false
}

// reservedWord reports whether an identifier collides with an anchor keyword.
func reservedWord(s string) bool {
	lower := strings.ToLower(s)
	return lower == "var" || lower == "doc"
}

// validIdentifier enforces the identifier rule: one or more of [A-Za-z0-9_-].
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
