// Package core defines the decoded header records and the protocol code
// tables. It has zero external dependencies.
package core

import (
	"fmt"
	"net"
)

// MacAddress is a 6-byte hardware address.
type MacAddress [6]byte

// String formats the address as colon-separated hex, e.g. 00:1b:21:0f:91:9b.
func (m MacAddress) String() string { return net.HardwareAddr(m[:]).String() }

// IsBroadcast reports whether m is ff:ff:ff:ff:ff:ff.
func (m MacAddress) IsBroadcast() bool { return m == MacAddress{0xff, 0xff, 0xff, 0xff, 0xff, 0xff} }

// EtherType identifies the payload protocol of an Ethernet frame. Any 16-bit
// value is a valid EtherType: codes without a name below are reported as
// Other(0x....) by String and Known returns false for them.
type EtherType uint16

// Well-known EtherType values.
const (
	EtherTypeIPv4                EtherType = 0x0800
	EtherTypeARP                 EtherType = 0x0806
	EtherTypeWakeOnLAN           EtherType = 0x0842
	EtherTypeAVTP                EtherType = 0x22F0
	EtherTypeTRILL               EtherType = 0x22F3
	EtherTypeSRP                 EtherType = 0x22EA
	EtherTypeDECMOPRC            EtherType = 0x6002
	EtherTypeDECnetPhase4        EtherType = 0x6003
	EtherTypeDECLAT              EtherType = 0x6004
	EtherTypeRARP                EtherType = 0x8035
	EtherTypeAppleTalk           EtherType = 0x809B
	EtherTypeAARP                EtherType = 0x80F3
	EtherTypeVLAN                EtherType = 0x8100
	EtherTypeSLPP                EtherType = 0x8102
	EtherTypeVLACP               EtherType = 0x8103
	EtherTypeIPX                 EtherType = 0x8137
	EtherTypeQNXQnet             EtherType = 0x8204
	EtherTypeIPv6                EtherType = 0x86DD
	EtherTypeEthernetFlowControl EtherType = 0x8808
	EtherTypeSlowProtocols       EtherType = 0x8809
	EtherTypeCobraNet            EtherType = 0x8819
	EtherTypeMPLSUnicast         EtherType = 0x8847
	EtherTypeMPLSMulticast       EtherType = 0x8848
	EtherTypePPPoEDiscovery      EtherType = 0x8863
	EtherTypePPPoESession        EtherType = 0x8864
	EtherTypeHomePlug1_0MME      EtherType = 0x887B
	EtherTypeEAPOL               EtherType = 0x888E
	EtherTypePROFINET            EtherType = 0x8892
	EtherTypeHyperSCSI           EtherType = 0x889A
	EtherTypeAoE                 EtherType = 0x88A2
	EtherTypeEtherCAT            EtherType = 0x88A4
	EtherTypeServiceVLAN         EtherType = 0x88A8
	EtherTypeEthernetPowerlink   EtherType = 0x88AB
	EtherTypeGOOSE               EtherType = 0x88B8
	EtherTypeGSE                 EtherType = 0x88B9
	EtherTypeSampledValues       EtherType = 0x88BA
	EtherTypeLLDP                EtherType = 0x88CC
	EtherTypeSERCOS3             EtherType = 0x88CD
	EtherTypeHomePlugAVMME       EtherType = 0x88E1
	EtherTypeMRP                 EtherType = 0x88E3
	EtherTypeMACsec              EtherType = 0x88E5
	EtherTypePBB                 EtherType = 0x88E7
	EtherTypePTP                 EtherType = 0x88F7
	EtherTypePRP                 EtherType = 0x88FB
	EtherTypeCFM                 EtherType = 0x8902
	EtherTypeFCoE                EtherType = 0x8906
	EtherTypeFCoEInit            EtherType = 0x8914
	EtherTypeRoCE                EtherType = 0x8915
	EtherTypeTTE                 EtherType = 0x891D
	EtherTypeIEEE1905            EtherType = 0x893A
	EtherTypeHSR                 EtherType = 0x892F
	EtherTypeCTP                 EtherType = 0x9000
	EtherTypeQinQ                EtherType = 0x9100
	EtherTypeVeritasLLT          EtherType = 0xCAFE
)

var etherTypeNames = map[EtherType]string{
	EtherTypeIPv4:                "IPv4",
	EtherTypeARP:                 "ARP",
	EtherTypeWakeOnLAN:           "WakeOnLAN",
	EtherTypeAVTP:                "AVTP",
	EtherTypeTRILL:               "TRILL",
	EtherTypeSRP:                 "SRP",
	EtherTypeDECMOPRC:            "DECMOPRC",
	EtherTypeDECnetPhase4:        "DECnetPhase4",
	EtherTypeDECLAT:              "DECLAT",
	EtherTypeRARP:                "RARP",
	EtherTypeAppleTalk:           "AppleTalk",
	EtherTypeAARP:                "AARP",
	EtherTypeVLAN:                "VLAN",
	EtherTypeSLPP:                "SLPP",
	EtherTypeVLACP:               "VLACP",
	EtherTypeIPX:                 "IPX",
	EtherTypeQNXQnet:             "QNXQnet",
	EtherTypeIPv6:                "IPv6",
	EtherTypeEthernetFlowControl: "EthernetFlowControl",
	EtherTypeSlowProtocols:       "SlowProtocols",
	EtherTypeCobraNet:            "CobraNet",
	EtherTypeMPLSUnicast:         "MPLSUnicast",
	EtherTypeMPLSMulticast:       "MPLSMulticast",
	EtherTypePPPoEDiscovery:      "PPPoEDiscovery",
	EtherTypePPPoESession:        "PPPoESession",
	EtherTypeHomePlug1_0MME:      "HomePlug1_0MME",
	EtherTypeEAPOL:               "EAPOL",
	EtherTypePROFINET:            "PROFINET",
	EtherTypeHyperSCSI:           "HyperSCSI",
	EtherTypeAoE:                 "AoE",
	EtherTypeEtherCAT:            "EtherCAT",
	EtherTypeServiceVLAN:         "ServiceVLAN",
	EtherTypeEthernetPowerlink:   "EthernetPowerlink",
	EtherTypeGOOSE:               "GOOSE",
	EtherTypeGSE:                 "GSE",
	EtherTypeSampledValues:       "SampledValues",
	EtherTypeLLDP:                "LLDP",
	EtherTypeSERCOS3:             "SERCOS3",
	EtherTypeHomePlugAVMME:       "HomePlugAVMME",
	EtherTypeMRP:                 "MRP",
	EtherTypeMACsec:              "MACsec",
	EtherTypePBB:                 "PBB",
	EtherTypePTP:                 "PTP",
	EtherTypePRP:                 "PRP",
	EtherTypeCFM:                 "CFM",
	EtherTypeFCoE:                "FCoE",
	EtherTypeFCoEInit:            "FCoEInit",
	EtherTypeRoCE:                "RoCE",
	EtherTypeTTE:                 "TTE",
	EtherTypeIEEE1905:            "IEEE1905",
	EtherTypeHSR:                 "HSR",
	EtherTypeCTP:                 "CTP",
	EtherTypeQinQ:                "QinQ",
	EtherTypeVeritasLLT:          "VeritasLLT",
}

// Known reports whether et has a name in the table.
func (et EtherType) Known() bool {
	_, ok := etherTypeNames[et]
	return ok
}

func (et EtherType) String() string {
	if name, ok := etherTypeNames[et]; ok {
		return name
	}
	return fmt.Sprintf("Other(0x%04x)", uint16(et))
}

// IsVLANTag reports whether et introduces an 802.1Q/802.1ad tag.
func (et EtherType) IsVLANTag() bool {
	return et == EtherTypeVLAN || et == EtherTypeServiceVLAN || et == EtherTypeQinQ
}

// EthernetFrame is an untagged Ethernet II header.
type EthernetFrame struct {
	DstMAC    MacAddress
	SrcMAC    MacAddress
	EtherType EtherType // may be EtherTypeVLAN; tags are not unwrapped
}

// VLANEthernetFrame is an Ethernet II header decoded with 802.1Q awareness.
// Tagged is true iff a 0x8100 tag was found and consumed; EtherType is then
// the ethertype that followed the tag.
type VLANEthernetFrame struct {
	DstMAC    MacAddress
	SrcMAC    MacAddress
	EtherType EtherType
	VID       uint16 // raw 16-bit tag control field, valid when Tagged
	Tagged    bool
}

// VLANID returns the 12-bit VLAN identifier from the tag.
func (f VLANEthernetFrame) VLANID() uint16 { return f.VID & 0x0FFF }

// Priority returns the 3-bit priority code point from the tag.
func (f VLANEthernetFrame) Priority() uint8 { return uint8(f.VID >> 13) }

// DropEligible returns the drop eligible indicator bit from the tag.
func (f VLANEthernetFrame) DropEligible() bool { return f.VID&0x1000 != 0 }

// VLANTag is a single 802.1Q tag: the tag control field and the ethertype
// that follows it.
type VLANTag struct {
	TCI       uint16
	EtherType EtherType
}

// ID returns the 12-bit VLAN identifier.
func (t VLANTag) ID() uint16 { return t.TCI & 0x0FFF }
