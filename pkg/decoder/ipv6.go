package decoder

import (
	"net/netip"

	"firestige.xyz/pktparse/internal/wire"
	"firestige.xyz/pktparse/pkg/core"
)

const layerIPv6 = "ipv6"

// DecodeIPv6 decodes the fixed 40-byte IPv6 header. Extension headers are
// left in the remainder; NextHeader names the first of them.
func DecodeIPv6(data []byte) (core.IPv6Header, []byte, error) {
	r := wire.NewReader(data, layerIPv6)
	var (
		h   core.IPv6Header
		err error
	)

	// version | tc(hi) | tc(lo) | flow(hi) | flow(lo)
	var f [5]uint32
	if err = r.Fields(f[:], 4, 4, 4, 4, 16); err != nil {
		return core.IPv6Header{}, nil, err
	}
	tcHi, tcLo := uint8(f[1]), uint8(f[2])
	h.Version = uint8(f[0])
	h.DS = tcHi<<2 | (tcLo&0b1100)>>2
	h.ECN = tcLo & 0b11
	h.FlowLabel = f[3]<<16 | f[4]

	if h.PayloadLen, err = r.Uint16(); err != nil {
		return core.IPv6Header{}, nil, err
	}
	next, err := r.Uint8()
	if err != nil {
		return core.IPv6Header{}, nil, err
	}
	h.NextHeader = core.IPProtocol(next)
	if h.HopLimit, err = r.Uint8(); err != nil {
		return core.IPv6Header{}, nil, err
	}

	src, err := r.IPv6()
	if err != nil {
		return core.IPv6Header{}, nil, err
	}
	dst, err := r.IPv6()
	if err != nil {
		return core.IPv6Header{}, nil, err
	}
	h.SrcIP = netip.AddrFrom16(src)
	h.DstIP = netip.AddrFrom16(dst)
	return h, r.Rest(), nil
}
