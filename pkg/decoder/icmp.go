package decoder

import (
	"net/netip"

	"firestige.xyz/pktparse/internal/wire"
	"firestige.xyz/pktparse/pkg/core"
)

const layerICMP = "icmp"

// DecodeICMP decodes an ICMPv4 header. For Destination Unreachable,
// Redirect and Time Exceeded messages it also decodes the quoted IPv4
// header and the 8 bytes of original datagram that follow it. The body is
// chosen by the type byte alone, so an unknown code under one of those
// types still gets its body decoded.
func DecodeICMP(data []byte) (core.ICMPHeader, []byte, error) {
	r := wire.NewReader(data, layerICMP)
	var (
		h   core.ICMPHeader
		err error
	)

	raw, err := r.Uint16()
	if err != nil {
		return core.ICMPHeader{}, nil, err
	}
	h.Code = core.ICMPCodeFrom(raw)
	if h.Checksum, err = r.Uint16(); err != nil {
		return core.ICMPHeader{}, nil, err
	}

	switch h.Code.Type() {
	case core.ICMPTypeDestinationUnreachable:
		d := &core.ICMPUnreachableData{}
		if err = r.Skip(2); err != nil {
			return core.ICMPHeader{}, nil, err
		}
		if d.NextHopMTU, err = r.Uint16(); err != nil {
			return core.ICMPHeader{}, nil, err
		}
		if d.Header, d.Packet, err = readQuotedDatagram(r); err != nil {
			return core.ICMPHeader{}, nil, err
		}
		h.Data = d
	case core.ICMPTypeRedirect:
		d := &core.ICMPRedirectData{}
		gw, err := r.IPv4()
		if err != nil {
			return core.ICMPHeader{}, nil, err
		}
		d.Gateway = netip.AddrFrom4(gw)
		if d.Header, d.Packet, err = readQuotedDatagram(r); err != nil {
			return core.ICMPHeader{}, nil, err
		}
		h.Data = d
	case core.ICMPTypeTimeExceeded:
		d := &core.ICMPTimeExceededData{}
		if err = r.Skip(4); err != nil {
			return core.ICMPHeader{}, nil, err
		}
		if d.Header, d.Packet, err = readQuotedDatagram(r); err != nil {
			return core.ICMPHeader{}, nil, err
		}
		h.Data = d
	}
	return h, r.Rest(), nil
}

// readQuotedDatagram reads the embedded IPv4 header and the 8-byte echo
// of the datagram that triggered an ICMP error. Offsets in errors are
// relative to the ICMP message.
func readQuotedDatagram(r *wire.Reader) (core.IPv4Header, core.ICMPPayloadPacket, error) {
	var echo core.ICMPPayloadPacket
	ip, err := readIPv4(r)
	if err != nil {
		return core.IPv4Header{}, echo, err
	}
	b, err := r.Bytes(len(echo))
	if err != nil {
		return core.IPv4Header{}, echo, err
	}
	copy(echo[:], b)
	return ip, echo, nil
}
