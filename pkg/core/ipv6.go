package core

import "net/netip"

// IPv6HeaderLen is the size of the fixed IPv6 header.
const IPv6HeaderLen = 40

// IPv6Header is the fixed IPv6 header. Extension headers are not decoded.
type IPv6Header struct {
	Version    uint8
	DS         uint8  // differentiated services code point, 6 bits
	ECN        uint8  // explicit congestion notification, 2 bits
	FlowLabel  uint32 // 20 bits
	PayloadLen uint16
	NextHeader IPProtocol
	HopLimit   uint8
	SrcIP      netip.Addr
	DstIP      netip.Addr
}

// TrafficClass reassembles the 8-bit traffic class from DS and ECN.
func (h IPv6Header) TrafficClass() uint8 { return h.DS<<2 | h.ECN }
