package ident

import "github.com/samborkent/uuidv7"

// Generator produces client-side document IDs. These are fallback IDs only:
// they are time-ordered and unique enough in practice, but the remote store
// assigns the authoritative ID when it is reachable.
type Generator interface {
	NewID() string
}

// UUIDv7 is the default generator.
type UUIDv7 struct{}

func (UUIDv7) NewID() string {
	return uuidv7.New().String()
}

// Fixed returns a generator that yields ids in order, for tests.
func Fixed(ids ...string) Generator {
	return &fixed{ids: ids}
}

type fixed struct {
	ids []string
	n   int
}

func (f *fixed) NewID() string {
	id := f.ids[f.n%len(f.ids)]
	f.n++
	return id
}
