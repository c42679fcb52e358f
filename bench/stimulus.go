package bench

import (
	crand "crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// Generator produces uniform complex noise. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed. A zero seed draws the
// PCG state from the operating system's entropy source.
func NewGenerator(seed uint64) *Generator {
	hi, lo := seed, seed^0x9e3779b97f4a7c15
	if seed == 0 {
		var b [16]byte
		// crypto/rand.Read never returns an error on supported platforms.
		_, _ = crand.Read(b[:])
		hi = binary.LittleEndian.Uint64(b[:8])
		lo = binary.LittleEndian.Uint64(b[8:])
	}

	return &Generator{rng: rand.New(rand.NewPCG(hi, lo))}
}

// uniform returns a value in the open interval (-1, 1) that stays inside it
// when rounded to float32.
func (g *Generator) uniform() float64 {
	for {
		v := 2*g.rng.Float64() - 1
		if f := float32(v); f > -1 && f < 1 {
			return v
		}
	}
}

// Fill overwrites buf with samples whose real and imaginary parts are drawn
// independently from (-1, 1).
func Fill[T Complex](g *Generator, buf []T) {
	for i := range buf {
		re := g.uniform()
		im := g.uniform()
		buf[i] = T(complex(re, im))
	}
}

// Checksum hashes the exact bit patterns of buf.
func Checksum[T Complex](buf []T) uint64 {
	h := fnv.New64a()

	var word [16]byte
	for _, v := range buf {
		c := complex128(v)
		binary.LittleEndian.PutUint64(word[:8], math.Float64bits(real(c)))
		binary.LittleEndian.PutUint64(word[8:], math.Float64bits(imag(c)))
		_, _ = h.Write(word[:])
	}

	return h.Sum64()
}
