// Package rolling implements the Adler-32-family weak checksum used by the
// delta engine to cheaply locate candidate blocks before paying for a strong
// digest comparison.
package rolling

// modulus is the weak checksum modulus (2^16), as used by rsync's own
// rolling checksum.
const modulus = 1 << 16

// Checksum is a rollable weak checksum over a fixed-size window. Advancing
// the window by one byte is an O(1) operation via Roll; it never
// recomputes the sum over the whole window.
type Checksum struct {
	a, b   uint32
	length uint32
}

// New computes the initial checksum for the window held in data, whose
// length is recorded as the window's rolling length for subsequent Roll
// calls.
func New(data []byte) *Checksum {
	c := &Checksum{length: uint32(len(data))}
	c.reset(data)
	return c
}

// reset recomputes the checksum from scratch over data, seeding the window
// at a new position rather than rolling it.
func (c *Checksum) reset(data []byte) {
	var a, b uint32
	n := uint32(len(data))
	for i, x := range data {
		a += uint32(x)
		b += (n - uint32(i)) * uint32(x)
	}
	c.a = a % modulus
	c.b = b % modulus
	c.length = n
}

// Reset reseeds the checksum over a fresh window, as required whenever the
// encoder jumps the cursor forward after a match rather than sliding byte
// by byte.
func (c *Checksum) Reset(data []byte) {
	c.reset(data)
}

// Roll advances the window by one byte: out is the byte leaving the window,
// in is the byte entering it. The window length does not change.
func (c *Checksum) Roll(out, in byte) {
	c.a = (c.a - uint32(out) + uint32(in)) % modulus
	c.b = (c.b - c.length*uint32(out) + c.a) % modulus
}

// Value returns the packed 32-bit weak checksum, (b<<16)|a, as specified for
// this tool's on-disk/wire-free comparison format.
func (c *Checksum) Value() uint32 {
	return (c.b << 16) | c.a
}

// Sum computes the weak checksum of data directly, without retaining any
// rolling state. It is equivalent to New(data).Value() but avoids an
// allocation when only a one-shot value is needed (e.g. signature
// generation).
func Sum(data []byte) uint32 {
	var a, b uint32
	n := uint32(len(data))
	for i, x := range data {
		a += uint32(x)
		b += (n - uint32(i)) * uint32(x)
	}
	a %= modulus
	b %= modulus
	return (b << 16) | a
}
