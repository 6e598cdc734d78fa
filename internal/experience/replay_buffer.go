package experience

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// DefaultCapacity is used when a non-positive capacity is requested
const DefaultCapacity = 100_000

// ReplayBuffer is a fixed-capacity circular store of transitions.
// When full, appending evicts the oldest transition.
//
// A ReplayBuffer is owned by a single training loop and is not safe for
// concurrent use.
type ReplayBuffer struct {
	buffer   []Transition
	capacity int
	size     int
	head     int // Write position
	tail     int // Oldest element

	src rand.Source

	// Statistics
	totalAdded   int64
	totalDropped int64
	totalSampled int64

	logger zerolog.Logger
}

// NewReplayBuffer creates a buffer with the given capacity. A nil src draws
// samples from a time-seeded source.
func NewReplayBuffer(capacity int, src rand.Source, logger zerolog.Logger) *ReplayBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	return &ReplayBuffer{
		buffer:   make([]Transition, capacity),
		capacity: capacity,
		src:      src,
		logger:   logger.With().Str("component", "replay_buffer").Logger(),
	}
}

// Append adds a transition at the tail, evicting the oldest one when full
func (b *ReplayBuffer) Append(t Transition) {
	if b.size >= b.capacity {
		b.tail = (b.tail + 1) % b.capacity
		b.totalDropped++
		if b.totalDropped == 1 {
			b.logger.Debug().
				Int("capacity", b.capacity).
				Msg("Replay buffer full, evicting oldest transitions")
		}
	} else {
		b.size++
	}

	b.buffer[b.head] = t
	b.head = (b.head + 1) % b.capacity
	b.totalAdded++
}

// Sample returns min(n, Len()) transitions. When n covers the whole buffer
// the contents are returned in insertion order; otherwise n distinct
// transitions are drawn uniformly at random without replacement.
func (b *ReplayBuffer) Sample(n int) []Transition {
	if n <= 0 {
		return []Transition{}
	}
	if n >= b.size {
		out := b.All()
		b.totalSampled += int64(len(out))
		return out
	}

	idxs := make([]int, n)
	sampleuv.WithoutReplacement(idxs, b.size, b.src)

	out := make([]Transition, n)
	for i, idx := range idxs {
		out[i] = b.at(idx)
	}
	b.totalSampled += int64(n)
	return out
}

// All returns every stored transition, oldest first
func (b *ReplayBuffer) All() []Transition {
	out := make([]Transition, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.at(i)
	}
	return out
}

// at returns the i-th oldest transition
func (b *ReplayBuffer) at(i int) Transition {
	return b.buffer[(b.tail+i)%b.capacity]
}

// Len returns the current number of transitions in the buffer
func (b *ReplayBuffer) Len() int {
	return b.size
}

// Capacity returns the maximum capacity of the buffer
func (b *ReplayBuffer) Capacity() int {
	return b.capacity
}

// IsFull returns true if the buffer is at capacity
func (b *ReplayBuffer) IsFull() bool {
	return b.size >= b.capacity
}

// Stats returns buffer statistics
func (b *ReplayBuffer) Stats() BufferStats {
	return BufferStats{
		CurrentSize:    b.size,
		Capacity:       b.capacity,
		TotalAdded:     b.totalAdded,
		TotalDropped:   b.totalDropped,
		TotalSampled:   b.totalSampled,
		UtilizationPct: float64(b.size) / float64(b.capacity) * 100,
	}
}

// BufferStats contains buffer statistics
type BufferStats struct {
	CurrentSize    int
	Capacity       int
	TotalAdded     int64
	TotalDropped   int64
	TotalSampled   int64
	UtilizationPct float64
}
