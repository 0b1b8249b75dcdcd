package decoder

import (
	"fmt"

	"firestige.xyz/pktparse/pkg/core"
)

// Decoder decodes a whole Ethernet frame.
type Decoder interface {
	Decode(data []byte) (*Packet, error)
}

// Config selects the optional behaviour of StandardDecoder.
type Config struct {
	// VLAN unwraps one 802.1Q tag.
	VLAN bool
	// QinQ unwraps every stacked 802.1Q / 802.1ad tag. It implies VLAN.
	QinQ bool
	// SkipIPv4Options drops IPv4 option bytes before the transport header.
	// Without it the transport decoder sees the options as its input, which
	// is only correct when IHL is 5.
	SkipIPv4Options bool
	// StrictARP rejects ARP messages whose declared address sizes are not
	// 6 and 4 instead of decoding them at those widths anyway.
	StrictARP bool
}

// Packet is the result of a chained decode. Exactly one of ARP, IPv4 and
// IPv6 is set when the network layer was recognised, and at most one of
// ICMP, TCP and UDP. Payload holds whatever follows the last decoded
// header and aliases the input.
type Packet struct {
	Ethernet  core.EthernetFrame
	VLANs     []core.VLANTag
	EtherType core.EtherType // innermost ethertype, after any unwrapped tags

	ARP  *core.ArpPacket
	IPv4 *core.IPv4Header
	IPv6 *core.IPv6Header

	ICMP *core.ICMPHeader
	TCP  *core.TCPHeader
	UDP  *core.UDPHeader

	Payload []byte
	// Layers lists the decoded layers in order, e.g. ethernet, vlan, ipv4, tcp.
	Layers []string
}

// StandardDecoder chains the per-protocol decoders: Ethernet, then ARP,
// IPv4 or IPv6, then ICMP, TCP or UDP. Layers it does not know end the
// chain and are left in Packet.Payload. It holds no mutable state and is
// safe for concurrent use.
type StandardDecoder struct {
	cfg Config
}

// NewStandardDecoder returns a StandardDecoder for cfg.
func NewStandardDecoder(cfg Config) *StandardDecoder {
	if cfg.QinQ {
		cfg.VLAN = true
	}
	return &StandardDecoder{cfg: cfg}
}

// Decode decodes data from the Ethernet header up. The first error from
// any layer is returned unchanged, so an incomplete frame stays incomplete.
func (d *StandardDecoder) Decode(data []byte) (*Packet, error) {
	pkt := &Packet{}

	rest, err := d.decodeLink(pkt, data)
	if err != nil {
		return nil, err
	}

	switch pkt.EtherType {
	case core.EtherTypeARP:
		rest, err = d.decodeARP(pkt, rest)
	case core.EtherTypeIPv4:
		rest, err = d.decodeIPv4(pkt, rest)
	case core.EtherTypeIPv6:
		rest, err = d.decodeIPv6(pkt, rest)
	}
	if err != nil {
		return nil, err
	}

	pkt.Payload = rest
	return pkt, nil
}

func (d *StandardDecoder) decodeLink(pkt *Packet, data []byte) ([]byte, error) {
	eth, rest, err := DecodeEthernet(data)
	if err != nil {
		return nil, err
	}
	pkt.Ethernet = eth
	pkt.EtherType = eth.EtherType
	pkt.Layers = append(pkt.Layers, layerEthernet)

	if !d.cfg.VLAN {
		return rest, nil
	}
	for {
		if d.cfg.QinQ {
			if !pkt.EtherType.IsVLANTag() {
				return rest, nil
			}
		} else if pkt.EtherType != core.EtherTypeVLAN || len(pkt.VLANs) > 0 {
			return rest, nil
		}

		var tag core.VLANTag
		if tag, rest, err = DecodeVLANTag(rest); err != nil {
			return nil, err
		}
		pkt.VLANs = append(pkt.VLANs, tag)
		pkt.EtherType = tag.EtherType
		pkt.Layers = append(pkt.Layers, layerVLAN)
	}
}

func (d *StandardDecoder) decodeARP(pkt *Packet, data []byte) ([]byte, error) {
	arp, rest, err := DecodeARP(data)
	if err != nil {
		return nil, err
	}
	if d.cfg.StrictARP && !arp.IsEthernetIPv4() {
		return nil, &core.MalformedError{
			Layer:  layerARP,
			Offset: 4,
			Reason: fmt.Sprintf("address sizes %d/%d, only Ethernet/IPv4 (6/4) is supported",
				arp.HWAddrSize, arp.ProtoAddrSize),
		}
	}
	pkt.ARP = &arp
	pkt.Layers = append(pkt.Layers, layerARP)
	return rest, nil
}

func (d *StandardDecoder) decodeIPv4(pkt *Packet, data []byte) ([]byte, error) {
	ip, rest, err := DecodeIPv4(data)
	if err != nil {
		return nil, err
	}
	pkt.IPv4 = &ip
	pkt.Layers = append(pkt.Layers, layerIPv4)

	if d.cfg.SkipIPv4Options {
		if rest, err = SkipIPv4Options(ip, rest); err != nil {
			return nil, err
		}
	}
	// Later fragments carry no transport header.
	if ip.FragOffset != 0 {
		return rest, nil
	}
	return d.decodeTransport(pkt, ip.Protocol, rest)
}

func (d *StandardDecoder) decodeIPv6(pkt *Packet, data []byte) ([]byte, error) {
	ip, rest, err := DecodeIPv6(data)
	if err != nil {
		return nil, err
	}
	pkt.IPv6 = &ip
	pkt.Layers = append(pkt.Layers, layerIPv6)
	return d.decodeTransport(pkt, ip.NextHeader, rest)
}

func (d *StandardDecoder) decodeTransport(pkt *Packet, proto core.IPProtocol, data []byte) ([]byte, error) {
	switch proto {
	case core.IPProtocolICMP:
		h, rest, err := DecodeICMP(data)
		if err != nil {
			return nil, err
		}
		pkt.ICMP = &h
		pkt.Layers = append(pkt.Layers, layerICMP)
		return rest, nil
	case core.IPProtocolTCP:
		h, rest, err := DecodeTCP(data)
		if err != nil {
			return nil, err
		}
		pkt.TCP = &h
		pkt.Layers = append(pkt.Layers, layerTCP)
		return rest, nil
	case core.IPProtocolUDP:
		h, rest, err := DecodeUDP(data)
		if err != nil {
			return nil, err
		}
		pkt.UDP = &h
		pkt.Layers = append(pkt.Layers, layerUDP)
		return rest, nil
	default:
		return data, nil
	}
}
