package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/pktparse/pkg/core"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		widths []uint8
		want   []uint32
	}{
		{"nibbles", []byte{0x45}, []uint8{4, 4}, []uint32{4, 5}},
		{"flags and fragment offset", []byte{0x20, 0x00}, []uint8{3, 13}, []uint32{1, 0}},
		{"fragment offset max", []byte{0x5F, 0xFF}, []uint8{3, 13}, []uint32{2, 0x1FFF}},
		{"tcp offset reserved flags", []byte{0x50, 0x18}, []uint8{4, 6, 6}, []uint32{5, 0, 0x18}},
		{"tcp all flags", []byte{0x8F, 0xFF}, []uint8{4, 6, 6}, []uint32{8, 0x3F, 0x3F}},
		{"ipv6 first word", []byte{0x60, 0x20, 0x01, 0xFF}, []uint8{4, 4, 4, 4, 16}, []uint32{6, 0, 2, 0, 0x01FF}},
		{"full word", []byte{0xDE, 0xAD, 0xBE, 0xEF}, []uint8{32}, []uint32{0xDEADBEEF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.input, "test")
			dst := make([]uint32, len(tt.widths))
			require.NoError(t, r.Fields(dst, tt.widths...))
			assert.Equal(t, tt.want, dst)
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestFieldsShortInput(t *testing.T) {
	r := NewReader([]byte{0x60, 0x20}, "ipv6")
	var f [5]uint32
	err := r.Fields(f[:], 4, 4, 4, 4, 16)

	needed, ok := core.NeededBytes(err)
	require.True(t, ok)
	assert.Equal(t, 2, needed)
	assert.Equal(t, 0, r.Offset())
}

func TestFieldsUnaligned(t *testing.T) {
	r := NewReader([]byte{0xFF}, "test")
	var f [1]uint32
	assert.Panics(t, func() { _ = r.Fields(f[:], 3) })
}

func TestNibbles(t *testing.T) {
	r := NewReader([]byte{0x6A}, "test")
	hi, lo, err := r.Nibbles()
	require.NoError(t, err)
	assert.Equal(t, uint8(6), hi)
	assert.Equal(t, uint8(0xA), lo)
}

func BenchmarkFields(b *testing.B) {
	data := []byte{0x60, 0x20, 0x01, 0xFF}
	var f [5]uint32

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewReader(data, "bench")
		if err := r.Fields(f[:], 4, 4, 4, 4, 16); err != nil {
			b.Fatal(err)
		}
	}
}
