package runner

import "math/rand/v2"

// RandomSource supplies the random bytes consumed by the RND instruction.
type RandomSource interface {
	Byte() byte
}

type pcgSource struct {
	rng *rand.Rand
}

// NewRandom returns a deterministic random source for the given seed.
func NewRandom(seed uint64) RandomSource {
	return &pcgSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

func (s *pcgSource) Byte() byte {
	return byte(s.rng.Uint32())
}
