package domain

// Principal is the authenticated caller, resolved by the external auth
// gateway and forwarded in request headers. It is passed explicitly into
// every mutating operation; nothing reads it from ambient state.
type Principal struct {
	ID   int64
	Role string
}

func (p Principal) Valid() bool { return p.ID > 0 }
