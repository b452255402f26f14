package chain

// Resolve folds cursor state into a chain to produce a concrete storage
// coordinate. The chain's own base wins when present; the cursor's base is
// the authority only when the caller supplied no fallback at parse time.
// Resolution is total: it cannot fail for any valid Chain and Cursor.
func Resolve(c Chain, cur Cursor) Resolved {
	base := c.Base
	if base == "" {
		base = cur.Base
	}
	if base == "" {
		base = DefaultBase
	}
	return Resolved{
		Base:         base,
		Container:    c.Container,
		Subcontainer: c.Subcontainer,
		Anchor:       c.Anchor,
		Tail:         c.Tail,
		Mode:         c.Mode,
	}
}

// ApplyAtomicity resets narrower selections when a broader scope changes.
// Switching container invalidates both the subcontainer and the tail;
// switching only the subcontainer invalidates the tail. This prevents
// operating on a stale keystore or document after a scope change.
func ApplyAtomicity(old, next Chain) Chain {
	result := next
	if old.Container != next.Container {
		result.Subcontainer = DefaultSubcontainer
		result.Tail = DefaultTail
	} else if old.Subcontainer != next.Subcontainer {
		result.Tail = DefaultTail
	}
	return result
}

// Root constructs the distinguished root chain for a base:
// <base>@ROOT.GLOBAL.var.MAIN. It is the default when no cursor chain
// exists and the location of the installation marker.
func Root(base string) Chain {
	return Chain{
		Base:           base,
		Container:      RootContainer,
		Subcontainer:   DefaultSubcontainer,
		Anchor:         Variable,
		Tail:           DefaultTail,
		Mode:           Persistent,
		FullyQualified: true,
	}
}

// IsRoot reports whether c addresses the root chain location. Base is
// ignored: the root chain exists once per base.
func IsRoot(c Chain) bool {
	return c.Container == RootContainer &&
		c.Subcontainer == DefaultSubcontainer &&
		c.Anchor == Variable &&
		c.Tail == DefaultTail
}

// IsRootCoordinate is IsRoot for an already-resolved coordinate.
func IsRootCoordinate(r Resolved) bool {
	return r.Container == RootContainer &&
		r.Subcontainer == DefaultSubcontainer &&
		r.Anchor == Variable &&
		r.Tail == DefaultTail
}
