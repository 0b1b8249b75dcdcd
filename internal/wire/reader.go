// Package wire implements the primitive big-endian field readers shared by
// every header decoder.
package wire

import (
	"encoding/binary"

	"firestige.xyz/pktparse/pkg/core"
)

// Reader is a forward-only cursor over a byte slice. It never copies the
// underlying buffer; Bytes and Rest return sub-slices of it.
//
// Every read either consumes exactly the requested width or fails with a
// *core.IncompleteError without moving the cursor.
type Reader struct {
	buf   []byte
	off   int
	layer string
}

// NewReader returns a Reader over buf. layer names the protocol in errors.
func NewReader(buf []byte, layer string) *Reader {
	return &Reader{buf: buf, layer: layer}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

// Rest returns the unread remainder.
func (r *Reader) Rest() []byte { return r.buf[r.off:] }

// Layer returns the protocol name used in errors.
func (r *Reader) Layer() string { return r.layer }

func (r *Reader) need(n int) error {
	if have := len(r.buf) - r.off; have < n {
		return &core.IncompleteError{Layer: r.layer, Offset: r.off, Needed: n - have}
	}
	return nil
}

// Malformed returns a *core.MalformedError positioned at the cursor.
func (r *Reader) Malformed(reason string) error {
	return &core.MalformedError{Layer: r.layer, Offset: r.off, Reason: reason}
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// Uint16 reads a big-endian 16-bit value.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// Uint32 reads a big-endian 32-bit value.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// Bytes returns the next n bytes as a sub-slice of the input.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.off += n
	return nil
}

// MAC reads a 6-byte hardware address.
func (r *Reader) MAC() (addr [6]byte, err error) {
	if err = r.need(6); err != nil {
		return addr, err
	}
	copy(addr[:], r.buf[r.off:])
	r.off += 6
	return addr, nil
}

// IPv4 reads a 4-byte address.
func (r *Reader) IPv4() (addr [4]byte, err error) {
	if err = r.need(4); err != nil {
		return addr, err
	}
	copy(addr[:], r.buf[r.off:])
	r.off += 4
	return addr, nil
}

// IPv6 reads a 16-byte address.
func (r *Reader) IPv6() (addr [16]byte, err error) {
	if err = r.need(16); err != nil {
		return addr, err
	}
	copy(addr[:], r.buf[r.off:])
	r.off += 16
	return addr, nil
}
