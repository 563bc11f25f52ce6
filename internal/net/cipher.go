package net

import "math/rand"

// Cipher implements the byte-swap obfuscation applied to every frame after
// the init handshake. Two per-session "swap multiples" are generated during
// the handshake, one per direction. Each direction's transform interleaves
// the payload front-to-back and then swaps adjacent byte pairs whose start
// index is divisible by that direction's multiple. A multiple of zero makes
// the transform an identity, which is how pre-handshake frames pass through.
type Cipher struct {
	serverMultiple byte // applied to server -> client frames
	clientMultiple byte // applied to client -> server frames
}

// GenerateMultiples returns two fresh nonzero swap multiples in [6, 12].
func GenerateMultiples() (byte, byte) {
	return byte(6 + rand.Intn(7)), byte(6 + rand.Intn(7))
}

// SetMultiples installs the handshake-generated multiples. Until this is
// called, both directions are identity.
func (c *Cipher) SetMultiples(server, client byte) {
	c.serverMultiple = server
	c.clientMultiple = client
}

// Multiples returns the current (server, client) multiples.
func (c *Cipher) Multiples() (byte, byte) {
	return c.serverMultiple, c.clientMultiple
}

// Encode obfuscates an outgoing server frame in a fresh slice.
func (c *Cipher) Encode(data []byte) []byte {
	if c.serverMultiple == 0 {
		return data
	}
	out := interleave(data)
	swapPairs(out, int(c.serverMultiple))
	return out
}

// Decode reverses the client-direction obfuscation of an incoming frame.
func (c *Cipher) Decode(data []byte) []byte {
	if c.clientMultiple == 0 {
		return data
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	swapPairs(buf, int(c.clientMultiple))
	return deinterleave(buf)
}

// interleave zips the payload: even output indexes take from the front half
// in order, odd indexes from the back in reverse.
func interleave(b []byte) []byte {
	out := make([]byte, len(b))
	n := len(b)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out[i] = b[i/2]
		} else {
			out[i] = b[n-1-i/2]
		}
	}
	return out
}

// deinterleave is the exact inverse of interleave.
func deinterleave(b []byte) []byte {
	out := make([]byte, len(b))
	n := len(b)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out[i/2] = b[i]
		} else {
			out[n-1-i/2] = b[i]
		}
	}
	return out
}

// swapPairs swaps disjoint adjacent pairs whose start index is divisible by
// the multiple. Pair selection depends only on length and multiple, so the
// operation is its own inverse.
func swapPairs(b []byte, multiple int) {
	if multiple <= 0 {
		return
	}
	for i := 0; i+1 < len(b); {
		if i%multiple == 0 {
			b[i], b[i+1] = b[i+1], b[i]
			i += 2
		} else {
			i++
		}
	}
}
