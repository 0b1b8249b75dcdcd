package core

import (
	"fmt"
	"net/netip"
)

// HardwareAddressType is the ARP hardware type field.
type HardwareAddressType uint16

// HardwareEthernet is the only named hardware type; everything else is Other.
const HardwareEthernet HardwareAddressType = 0x0001

func (t HardwareAddressType) String() string {
	if t == HardwareEthernet {
		return "Ethernet"
	}
	return fmt.Sprintf("Other(0x%04x)", uint16(t))
}

// Known reports whether t is a named hardware type.
func (t HardwareAddressType) Known() bool { return t == HardwareEthernet }

// ProtocolAddressType is the ARP protocol type field.
type ProtocolAddressType uint16

// ProtocolIPv4 is the only named protocol type; everything else is Other.
const ProtocolIPv4 ProtocolAddressType = 0x0800

func (t ProtocolAddressType) String() string {
	if t == ProtocolIPv4 {
		return "IPv4"
	}
	return fmt.Sprintf("Other(0x%04x)", uint16(t))
}

// Known reports whether t is a named protocol type.
func (t ProtocolAddressType) Known() bool { return t == ProtocolIPv4 }

// ArpOperation is the ARP opcode.
type ArpOperation uint16

const (
	ArpRequest ArpOperation = 1
	ArpReply   ArpOperation = 2
)

func (op ArpOperation) String() string {
	switch op {
	case ArpRequest:
		return "Request"
	case ArpReply:
		return "Reply"
	default:
		return fmt.Sprintf("Other(%d)", uint16(op))
	}
}

// Known reports whether op is Request or Reply.
func (op ArpOperation) Known() bool { return op == ArpRequest || op == ArpReply }

// ArpPacket is an ARP message for Ethernet/IPv4. HWAddrSize and
// ProtoAddrSize are copied from the wire and are advisory only: the address
// fields are always read as 6-byte MAC and 4-byte IPv4.
type ArpPacket struct {
	HWAddrType    HardwareAddressType
	ProtoAddrType ProtocolAddressType
	HWAddrSize    uint8
	ProtoAddrSize uint8
	Operation     ArpOperation
	SrcMAC        MacAddress
	SrcIP         netip.Addr
	DstMAC        MacAddress
	DstIP         netip.Addr
}

// IsEthernetIPv4 reports whether the declared types and sizes match the
// fixed layout the packet was decoded with. When false the address fields
// may not reflect the sender's intent.
func (p ArpPacket) IsEthernetIPv4() bool {
	return p.HWAddrType == HardwareEthernet && p.ProtoAddrType == ProtocolIPv4 &&
		p.HWAddrSize == 6 && p.ProtoAddrSize == 4
}
