// Package shuffle serves uniformly random batches drawn from a reshuffled permutation buffer.
package shuffle

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrInvalidCount is returned for a negative batch count or a destination shorter than the count
	ErrInvalidCount = errors.New("invalid count")
	// ErrEmpty is returned when drawing a non empty batch from an empty buffer
	ErrEmpty = errors.New("empty shuffle buffer")
)

// Range randomizes count elements of data beginning at start, wrapping around its end.
// After the call these elements are uniformly randomly distributed.
func Range[T any](rng *rand.Rand, data []T, start, count int) {
	size := len(data)
	if count <= 0 || size == 0 {
		return
	}
	for i := count; i > 1; {
		j := (start + rng.IntN(i)) % size
		i--
		k := (start + i) % size
		data[k], data[j] = data[j], data[k]
	}
}

// Batch draws batches sequentially from a permutation buffer, reshuffling it whenever it is exhausted.
// Batch is not safe for concurrent use.
type Batch[T any] struct {
	rng   *rand.Rand
	data  []T
	index int
}

// Next fills dest[:count] with the next count elements
func (b *Batch[T]) Next(dest []T, count int) error {
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if count == 0 {
		return nil
	}
	if len(dest) < count {
		return fmt.Errorf("%w: %d exceeds destination length %d", ErrInvalidCount, count, len(dest))
	}
	size := len(b.data)
	if size == 0 {
		return ErrEmpty
	}
	start := 0
	for remaining := count; remaining > 0; {
		if b.index == size {
			Range(b.rng, b.data, 0, size)
			b.index = 0
		}
		n := min(size-b.index, remaining)
		copy(dest[start:start+n], b.data[b.index:b.index+n])
		b.index += n
		start += n
		remaining -= n
	}
	return nil
}

// Draw returns the next count elements in a new slice
func (b *Batch[T]) Draw(count int) ([]T, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	dest := make([]T, count)
	if err := b.Next(dest, count); err != nil {
		return nil, err
	}
	return dest, nil
}

// Len returns buffer size
func (b *Batch[T]) Len() int {
	return len(b.data)
}

// New creates a batch over data, data is shuffled in place and owned by the batch
func New[T any](rng *rand.Rand, data []T) *Batch[T] {
	Range(rng, data, 0, len(data))
	return &Batch[T]{rng: rng, data: data}
}

// FromInts creates a batch over the supplied permutation data
func FromInts(rng *rand.Rand, data []int) *Batch[int] {
	return New(rng, data)
}

// NewInts creates a batch over a random permutation of 0..n-1
func NewInts(rng *rand.Rand, n int) (*Batch[int], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidCount, n)
	}
	data := make([]int, n)
	for i := range data {
		data[i] = i
	}
	return New(rng, data), nil
}
