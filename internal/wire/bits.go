package wire

import "fmt"

// maxFieldBits bounds one Fields call: the group is loaded into a uint64.
const maxFieldBits = 64

// Fields reads a group of packed bit fields. The input is treated as a
// big-endian bit sequence starting at the most significant bit of the next
// byte; widths[i] bits are stored into dst[i], left to right, exactly as the
// fields appear in protocol diagrams. For example widths 4,4 on byte 0x45
// yield 4 and 5.
//
// The widths must add up to a whole number of bytes, at most 8, and each
// width must fit in 32 bits; violating that is a programming error and
// panics. The group is consumed as a unit: on short input nothing is read.
func (r *Reader) Fields(dst []uint32, widths ...uint8) error {
	if len(dst) < len(widths) {
		panic(fmt.Sprintf("wire: %d destinations for %d fields", len(dst), len(widths)))
	}
	total := 0
	for _, w := range widths {
		if w == 0 || w > 32 {
			panic(fmt.Sprintf("wire: invalid field width %d", w))
		}
		total += int(w)
	}
	if total%8 != 0 || total > maxFieldBits {
		panic(fmt.Sprintf("wire: field group of %d bits is not byte aligned", total))
	}
	n := total / 8
	if err := r.need(n); err != nil {
		return err
	}

	var acc uint64
	for _, b := range r.buf[r.off : r.off+n] {
		acc = acc<<8 | uint64(b)
	}
	shift := total
	for i, w := range widths {
		shift -= int(w)
		dst[i] = uint32(acc>>uint(shift)) & (1<<w - 1)
	}
	r.off += n
	return nil
}

// Nibbles splits the next byte into its high and low four bits.
func (r *Reader) Nibbles() (hi, lo uint8, err error) {
	var f [2]uint32
	if err = r.Fields(f[:], 4, 4); err != nil {
		return 0, 0, err
	}
	return uint8(f[0]), uint8(f[1]), nil
}
