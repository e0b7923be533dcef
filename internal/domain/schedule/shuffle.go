package schedule

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Shuffler reorders team ids in place before seeding.
type Shuffler interface {
	Shuffle(ids []int64)
}

// ShuffleFunc adapts a plain function to Shuffler.
type ShuffleFunc func(ids []int64)

func (f ShuffleFunc) Shuffle(ids []int64) {
	f(ids)
}

// NoShuffle keeps registration order.
var NoShuffle Shuffler = ShuffleFunc(func([]int64) {})

// RandShuffler is a goroutine-safe seeded shuffler.
type RandShuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandShuffler seeds a PCG source. A zero seed uses the current time.
func NewRandShuffler(seed uint64) *RandShuffler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandShuffler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandShuffler) Shuffle(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

func shuffled(ids []int64, shuffler Shuffler) []int64 {
	out := append([]int64(nil), ids...)
	if shuffler == nil {
		shuffler = NoShuffle
	}
	shuffler.Shuffle(out)
	return out
}
