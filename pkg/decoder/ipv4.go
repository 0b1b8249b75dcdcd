package decoder

import (
	"net/netip"

	"firestige.xyz/pktparse/internal/wire"
	"firestige.xyz/pktparse/pkg/core"
)

const layerIPv4 = "ipv4"

// DecodeIPv4 decodes the fixed 20-byte IPv4 header. It does not look at
// IHL when deciding how much to consume: options, if any, are the first
// h.OptionsLen() bytes of the returned remainder. See SkipIPv4Options.
func DecodeIPv4(data []byte) (core.IPv4Header, []byte, error) {
	r := wire.NewReader(data, layerIPv4)
	h, err := readIPv4(r)
	if err != nil {
		return core.IPv4Header{}, nil, err
	}
	return h, r.Rest(), nil
}

// SkipIPv4Options drops the option bytes declared by h from the remainder
// returned by DecodeIPv4. An IHL below 5 is malformed.
func SkipIPv4Options(h core.IPv4Header, rest []byte) ([]byte, error) {
	r := wire.NewReader(rest, layerIPv4)
	if h.IHL < 5 {
		return nil, r.Malformed("header length below 20 bytes")
	}
	if err := r.Skip(h.OptionsLen()); err != nil {
		return nil, err
	}
	return r.Rest(), nil
}

func readIPv4(r *wire.Reader) (h core.IPv4Header, err error) {
	if h.Version, h.IHL, err = r.Nibbles(); err != nil {
		return h, err
	}
	if h.TOS, err = r.Uint8(); err != nil {
		return h, err
	}
	if h.TotalLen, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.ID, err = r.Uint16(); err != nil {
		return h, err
	}

	var frag [2]uint32
	if err = r.Fields(frag[:], 3, 13); err != nil {
		return h, err
	}
	h.Flags = uint8(frag[0])
	h.FragOffset = uint16(frag[1])

	if h.TTL, err = r.Uint8(); err != nil {
		return h, err
	}
	proto, err := r.Uint8()
	if err != nil {
		return h, err
	}
	h.Protocol = core.IPProtocol(proto)
	if h.Checksum, err = r.Uint16(); err != nil {
		return h, err
	}

	src, err := r.IPv4()
	if err != nil {
		return h, err
	}
	dst, err := r.IPv4()
	if err != nil {
		return h, err
	}
	h.SrcIP = netip.AddrFrom4(src)
	h.DstIP = netip.AddrFrom4(dst)
	return h, nil
}
