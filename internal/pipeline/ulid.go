package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// ULIDs identify jobs and collections: 26-character Crockford Base32 strings
// with a 48-bit millisecond timestamp prefix, so they sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewID returns a fresh ULID.
func NewID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// Timestamp in first 6 bytes (big-endian 48-bit).
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	// Random in remaining 10 bytes, with a sequence counter in bytes 6-7 to
	// keep IDs unique within the same millisecond.
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 renders 128 bits as 26 Crockford Base32 characters. Two
// implicit zero pad bits in front make 130 bits, which split evenly into 26
// five-bit groups.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	acc := uint32(0)
	accBits := 2
	oi := 0
	for _, by := range b {
		acc = acc<<8 | uint32(by)
		accBits += 8
		for accBits >= 5 {
			accBits -= 5
			out[oi] = crockford[(acc>>uint(accBits))&31]
			oi++
		}
	}
	return string(out[:])
}
