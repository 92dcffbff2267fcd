package sink

import (
	"hash"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

const (
	codeChannel   byte = 'c'
	importChannel byte = 'i'
)

// Digest fingerprints both channels while forwarding them to the next sink
type Digest struct {
	next Sink
	hash hash.Hash64
}

// Code emits a code line
func (d *Digest) Code(line string) error {
	d.write(codeChannel, line)
	if d.next == nil {
		return nil
	}
	return d.next.Code(line)
}

// Import emits an import name
func (d *Digest) Import(name string) error {
	d.write(importChannel, name)
	if d.next == nil {
		return nil
	}
	return d.next.Import(name)
}

func (d *Digest) write(channel byte, text string) {
	_, _ = d.hash.Write([]byte{channel})
	_, _ = d.hash.Write([]byte(text))
	_, _ = d.hash.Write([]byte{'\n'})
}

// Sum64 returns fingerprint of all lines emitted so far
func (d *Digest) Sum64() uint64 {
	return d.hash.Sum64()
}

// NewDigest creates a fingerprinting sink, next may be nil
func NewDigest(next Sink) (*Digest, error) {
	aHash, err := highwayhash.New64(key)
	if err != nil {
		return nil, err
	}
	return &Digest{next: next, hash: aHash}, nil
}
