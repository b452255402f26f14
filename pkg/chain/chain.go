// Package chain implements the context-chain addressing scheme for bookdb:
// parsing of chain strings, cursor-dependent resolution, and the atomicity
// rules that reset narrower selections when a broader scope changes.
package chain

import "fmt"

// Canonical defaults shared by the resolver and the root-chain constructor.
// Every call site must use these constants rather than repeating the literals.
const (
	DefaultBase         = "home"
	DefaultSubcontainer = "GLOBAL"
	DefaultTail         = "MAIN"
	RootContainer       = "ROOT"
)

// Anchor selects which sub-namespace a chain addresses: the variable store
// or the document store. Input is case-insensitive ("var", "VAR", "Var").
type Anchor int

const (
	// Variable addresses a keystore of key=value variables.
	Variable Anchor = iota
	// Document addresses a single document by key.
	Document
)

// String returns the lowercase token used in chain strings.
func (a Anchor) String() string {
	if a == Document {
		return "doc"
	}
	return "var"
}

// MarshalText encodes the anchor as its chain token for cursor persistence.
func (a Anchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes "var" or "doc" (any case).
func (a *Anchor) UnmarshalText(text []byte) error {
	anchor, ok := parseAnchor(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAnchor, string(text))
	}
	*a = anchor
	return nil
}

// Mode describes how applying a chain affects the session cursor.
// It is determined by the leading character of the raw chain string.
type Mode int

const (
	// Persistent (@) updates the cursor durably.
	Persistent Mode = iota
	// Ephemeral (%) applies once and leaves the cursor untouched.
	Ephemeral
	// Action (#) is reserved for imperative operations; it currently
	// behaves as a no-op on cursor state.
	Action
)

// Prefix returns the chain-string prefix character for the mode.
func (m Mode) Prefix() string {
	switch m {
	case Ephemeral:
		return "%"
	case Action:
		return "#"
	default:
		return "@"
	}
}

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case Ephemeral:
		return "ephemeral"
	case Action:
		return "action"
	default:
		return "persistent"
	}
}

// MarshalText encodes the mode name for cursor persistence.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "persistent":
		*m = Persistent
	case "ephemeral":
		*m = Ephemeral
	case "action":
		*m = Action
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, string(text))
	}
	return nil
}

// Chain is a parsed context chain. Container, Subcontainer and Tail are
// validated identifiers; Base is seeded with the parse-time fallback when
// the input was cursor-dependent. FullyQualified is true only when the
// input carried an explicit base@ segment.
type Chain struct {
	Base           string `json:"base"`
	Container      string `json:"container"`
	Subcontainer   string `json:"subcontainer"`
	Anchor         Anchor `json:"anchor"`
	Tail           string `json:"tail"`
	Mode           Mode   `json:"mode"`
	FullyQualified bool   `json:"fully_qualified"`
}

// String renders the canonical display form: base@c.s.anchor.t for
// fully-qualified chains, <prefix>c.s.anchor.t for cursor-dependent ones.
func (c Chain) String() string {
	if c.FullyQualified {
		return fmt.Sprintf("%s@%s.%s.%s.%s", c.Base, c.Container, c.Subcontainer, c.Anchor, c.Tail)
	}
	return fmt.Sprintf("%s%s.%s.%s.%s", c.Mode.Prefix(), c.Container, c.Subcontainer, c.Anchor, c.Tail)
}

// Resolved is the fully-qualified storage coordinate produced by resolving
// a Chain against a Cursor. Base is always concrete. Resolved values are
// handed to the storage layer and never persisted.
type Resolved struct {
	Base         string
	Container    string
	Subcontainer string
	Anchor       Anchor
	Tail         string
	Mode         Mode
}

// String renders the coordinate in fully-qualified form.
func (r Resolved) String() string {
	return fmt.Sprintf("%s@%s.%s.%s.%s", r.Base, r.Container, r.Subcontainer, r.Anchor, r.Tail)
}

// Cursor is the durable session record: the active base plus the last chain
// applied in persistent mode. Chain is nil until the first persistent apply.
type Cursor struct {
	Base  string `json:"base_cursor"`
	Chain *Chain `json:"chain_cursor"`
}

// DefaultCursor returns the cursor used before any session state exists.
func DefaultCursor() Cursor {
	return Cursor{Base: DefaultBase}
}
