// Package intern deduplicates the key and string values of a document so
// that equal strings share one allocation and compare by identity.
//
// A Handle is only meaningful relative to the Interner that produced it:
// two handles from the same Interner are == exactly when their contents
// are equal.
package intern

import "sync"

// Handle refers to a single interned string.  The zero Handle is "absent"
// and is distinct from the handle of the empty string.
type Handle struct {
	p *string
}

// String returns the content of h, or "" for the zero Handle.
func (h Handle) String() string {
	if h.p == nil {
		return ""
	}
	return *h.p
}

// IsZero reports whether h is the zero (absent) Handle.
func (h Handle) IsZero() bool {
	return h.p == nil
}

// Interner maps string content to a unique Handle.  There is no removal;
// memory is released when the Interner and everything holding its handles
// become unreachable.
type Interner struct {
	mu sync.RWMutex
	m  map[string]Handle
}

func New() *Interner {
	return &Interner{m: map[string]Handle{}}
}

// Intern returns the handle for s, creating it on first use.
func (in *Interner) Intern(s string) Handle {
	in.mu.RLock()
	h, ok := in.m[s]
	in.mu.RUnlock()
	if ok {
		return h
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if h, ok := in.m[s]; ok {
		return h
	}
	c := s
	h = Handle{p: &c}
	in.m[c] = h
	return h
}

// Lookup returns the existing handle for s without creating one.
func (in *Interner) Lookup(s string) (Handle, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	h, ok := in.m[s]
	return h, ok
}

// Len returns the number of distinct strings held.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.m)
}
