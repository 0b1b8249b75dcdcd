// Package decoder implements L2-L4 header decoding.
package decoder

import (
	"firestige.xyz/pktparse/internal/wire"
	"firestige.xyz/pktparse/pkg/core"
)

const (
	ethernetHeaderLen = 14
	vlanHeaderLen     = 4

	layerEthernet = "ethernet"
	layerVLAN     = "vlan"
)

// DecodeEthernet decodes an Ethernet II header: destination MAC, source MAC
// and ethertype. VLAN tags are not unwrapped; a tagged frame reports
// EtherTypeVLAN and the tag is left at the start of the remainder.
func DecodeEthernet(data []byte) (core.EthernetFrame, []byte, error) {
	r := wire.NewReader(data, layerEthernet)
	eth, err := readEthernet(r)
	if err != nil {
		return core.EthernetFrame{}, nil, err
	}
	return eth, r.Rest(), nil
}

// DecodeVLANEthernet decodes an Ethernet II header and, when the ethertype
// is the 802.1Q marker 0x8100, the single tag that follows it. The reported
// EtherType is then the one found after the tag.
//
// Exactly one tag is unwrapped. In a double-tagged frame the reported
// EtherType is whatever follows the first tag, possibly another VLAN
// marker; StandardDecoder with QinQ enabled walks the whole stack.
func DecodeVLANEthernet(data []byte) (core.VLANEthernetFrame, []byte, error) {
	r := wire.NewReader(data, layerEthernet)
	eth, err := readEthernet(r)
	if err != nil {
		return core.VLANEthernetFrame{}, nil, err
	}

	frame := core.VLANEthernetFrame{
		DstMAC:    eth.DstMAC,
		SrcMAC:    eth.SrcMAC,
		EtherType: eth.EtherType,
	}
	if eth.EtherType == core.EtherTypeVLAN {
		tag, err := readVLANTag(r)
		if err != nil {
			return core.VLANEthernetFrame{}, nil, err
		}
		frame.VID = tag.TCI
		frame.EtherType = tag.EtherType
		frame.Tagged = true
	}
	return frame, r.Rest(), nil
}

// DecodeVLANTag decodes the 4 bytes that follow a VLAN marker ethertype:
// the tag control field and the next ethertype.
func DecodeVLANTag(data []byte) (core.VLANTag, []byte, error) {
	r := wire.NewReader(data, layerVLAN)
	tag, err := readVLANTag(r)
	if err != nil {
		return core.VLANTag{}, nil, err
	}
	return tag, r.Rest(), nil
}

func readEthernet(r *wire.Reader) (eth core.EthernetFrame, err error) {
	if eth.DstMAC, err = r.MAC(); err != nil {
		return eth, err
	}
	if eth.SrcMAC, err = r.MAC(); err != nil {
		return eth, err
	}
	et, err := r.Uint16()
	if err != nil {
		return eth, err
	}
	eth.EtherType = core.EtherType(et)
	return eth, nil
}

func readVLANTag(r *wire.Reader) (tag core.VLANTag, err error) {
	if tag.TCI, err = r.Uint16(); err != nil {
		return tag, err
	}
	et, err := r.Uint16()
	if err != nil {
		return tag, err
	}
	tag.EtherType = core.EtherType(et)
	return tag, nil
}
