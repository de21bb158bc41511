package questiongen

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Stream is a deterministic byte stream built from HMAC-SHA256 blocks of
// "label:seed:round". The same key, label and seed always yield the same bytes.
type Stream struct {
	key    []byte
	label  string
	seed   uint64
	round  int
	cursor int
	buffer [32]byte
}

func NewStream(key, label string, seed uint64) *Stream {
	s := &Stream{key: []byte(key), label: label, seed: seed}
	s.generateRound()
	return s
}

func (s *Stream) generateRound() {
	h := hmac.New(sha256.New, s.key)
	fmt.Fprintf(h, "%s:%d:%d", s.label, s.seed, s.round)
	copy(s.buffer[:], h.Sum(nil))
	s.cursor = 0
}

// Next returns the next byte
func (s *Stream) Next() byte {
	if s.cursor >= len(s.buffer) {
		s.round++
		s.generateRound()
	}
	b := s.buffer[s.cursor]
	s.cursor++
	return b
}

// Float returns a value in [0, 1) built from four bytes
func (s *Stream) Float() float64 {
	b0, b1, b2, b3 := s.Next(), s.Next(), s.Next(), s.Next()
	return float64(b0)/256.0 +
		float64(b1)/(256.0*256.0) +
		float64(b2)/(256.0*256.0*256.0) +
		float64(b3)/(256.0*256.0*256.0*256.0)
}

// Intn returns a value in [0, n); n must be positive
func (s *Stream) Intn(n int) int {
	v := int(s.Float() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Between returns a value in [lo, hi]
func (s *Stream) Between(lo, hi int) int {
	return lo + s.Intn(hi-lo+1)
}

// SeedFor derives a generator seed from a session and round
func SeedFor(sessionID string, round int) uint64 {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", sessionID, round)))
	return binary.BigEndian.Uint64(sum[:8])
}
