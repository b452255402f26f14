package chain

import "errors"

// Parse errors. Each sentinel identifies one failure kind from the chain
// grammar; Parse wraps them with the offending input fragment so callers
// can match with errors.Is and still show specific guidance.
var (
	ErrEmptyChain        = errors.New("empty context chain")
	ErrInvalidMode       = errors.New("context chain must start with @, %, or #")
	ErrMalformedBase     = errors.New("malformed base@ segment")
	ErrEmptyBase         = errors.New("empty base name before @")
	ErrBasePrefixed      = errors.New("base names cannot carry a @, % or # prefix")
	ErrSegmentCount      = errors.New("context chain needs exactly 4 segments: container.subcontainer.anchor.tail")
	ErrEmptySegment      = errors.New("empty chain segment")
	ErrInvalidAnchor     = errors.New("anchor must be var or doc")
	ErrReservedWord      = errors.New("var and doc are reserved and cannot name a segment")
	ErrInvalidIdentifier = errors.New("identifiers may only contain letters, digits, _ and -")
)
