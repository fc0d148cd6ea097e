package pattern

import "sync"

// Cache memoizes compiled patterns keyed by their source text. Entries are
// immutable once inserted, so concurrent reads need no locking and an edited
// variant (new text, new key) can never be served a stale compiled form.
// Failed parses are not cached.
type Cache struct {
	m sync.Map // pattern text -> *Compiled
}

// Get returns the compiled form of text, parsing and caching it on first use.
func (c *Cache) Get(text string) (*Compiled, error) {
	if v, ok := c.m.Load(text); ok {
		return v.(*Compiled), nil
	}
	compiled, err := Parse(text)
	if err != nil {
		return nil, err
	}
	actual, _ := c.m.LoadOrStore(text, compiled)
	return actual.(*Compiled), nil
}

// Len reports the number of cached patterns.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(any, any) bool { n++; return true })
	return n
}
