package mapguess

// Source is the random capability used by Sampler. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Sampler draws targets uniformly from the valid subset of a catalog.
type Sampler struct {
	catalog *Catalog
	rnd     Source
}

func NewSampler(catalog *Catalog, rnd Source) *Sampler {
	return &Sampler{catalog: catalog, rnd: rnd}
}

func (s *Sampler) Next() Location {
	return s.catalog.Valid(s.rnd.IntN(s.catalog.ValidLen()))
}
