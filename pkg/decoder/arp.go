package decoder

import (
	"net/netip"

	"firestige.xyz/pktparse/internal/wire"
	"firestige.xyz/pktparse/pkg/core"
)

const (
	arpPacketLen = 28

	layerARP = "arp"
)

// DecodeARP decodes an ARP message for Ethernet/IPv4. The declared address
// sizes are recorded but not used: the sender and target addresses are
// always read as a 6-byte MAC followed by a 4-byte IPv4 address. Use
// ArpPacket.IsEthernetIPv4 to detect messages for other address families.
func DecodeARP(data []byte) (core.ArpPacket, []byte, error) {
	r := wire.NewReader(data, layerARP)
	var (
		arp core.ArpPacket
		err error
	)

	hw, err := r.Uint16()
	if err != nil {
		return core.ArpPacket{}, nil, err
	}
	arp.HWAddrType = core.HardwareAddressType(hw)

	proto, err := r.Uint16()
	if err != nil {
		return core.ArpPacket{}, nil, err
	}
	arp.ProtoAddrType = core.ProtocolAddressType(proto)

	if arp.HWAddrSize, err = r.Uint8(); err != nil {
		return core.ArpPacket{}, nil, err
	}
	if arp.ProtoAddrSize, err = r.Uint8(); err != nil {
		return core.ArpPacket{}, nil, err
	}

	op, err := r.Uint16()
	if err != nil {
		return core.ArpPacket{}, nil, err
	}
	arp.Operation = core.ArpOperation(op)

	if arp.SrcMAC, arp.SrcIP, err = readMACAndIPv4(r); err != nil {
		return core.ArpPacket{}, nil, err
	}
	if arp.DstMAC, arp.DstIP, err = readMACAndIPv4(r); err != nil {
		return core.ArpPacket{}, nil, err
	}
	return arp, r.Rest(), nil
}

func readMACAndIPv4(r *wire.Reader) (core.MacAddress, netip.Addr, error) {
	mac, err := r.MAC()
	if err != nil {
		return core.MacAddress{}, netip.Addr{}, err
	}
	ip, err := r.IPv4()
	if err != nil {
		return core.MacAddress{}, netip.Addr{}, err
	}
	return mac, netip.AddrFrom4(ip), nil
}
