package core

import "fmt"

// IPProtocol is an IANA assigned internet protocol number, as carried in the
// IPv4 protocol field and the IPv6 next-header field. Unnamed numbers are
// valid values and print as Other(n).
type IPProtocol uint8

const (
	IPProtocolHOPOPT    IPProtocol = 0
	IPProtocolICMP      IPProtocol = 1
	IPProtocolIGMP      IPProtocol = 2
	IPProtocolGGP       IPProtocol = 3
	IPProtocolIPinIP    IPProtocol = 4
	IPProtocolST        IPProtocol = 5
	IPProtocolTCP       IPProtocol = 6
	IPProtocolCBT       IPProtocol = 7
	IPProtocolEGP       IPProtocol = 8
	IPProtocolIGP       IPProtocol = 9
	IPProtocolBBNRCCMON IPProtocol = 10
	IPProtocolNVPII     IPProtocol = 11
	IPProtocolPUP       IPProtocol = 12
	IPProtocolARGUS     IPProtocol = 13
	IPProtocolEMCON     IPProtocol = 14
	IPProtocolXNET      IPProtocol = 15
	IPProtocolCHAOS     IPProtocol = 16
	IPProtocolUDP       IPProtocol = 17
	IPProtocolIPv6      IPProtocol = 41
	IPProtocolIPv6Route IPProtocol = 43
	IPProtocolIPv6Frag  IPProtocol = 44
	IPProtocolGRE       IPProtocol = 47
	IPProtocolESP       IPProtocol = 50
	IPProtocolAH        IPProtocol = 51
	IPProtocolICMP6     IPProtocol = 58
	IPProtocolIPv6NoNxt IPProtocol = 59
	IPProtocolIPv6Opts  IPProtocol = 60
	IPProtocolOSPF      IPProtocol = 89
	IPProtocolPIM       IPProtocol = 103
	IPProtocolVRRP      IPProtocol = 112
	IPProtocolL2TP      IPProtocol = 115
	IPProtocolSCTP      IPProtocol = 132
	IPProtocolUDPLite   IPProtocol = 136
	IPProtocolMPLSInIP  IPProtocol = 137
)

var ipProtocolNames = map[IPProtocol]string{
	IPProtocolHOPOPT:    "HOPOPT",
	IPProtocolICMP:      "ICMP",
	IPProtocolIGMP:      "IGMP",
	IPProtocolGGP:       "GGP",
	IPProtocolIPinIP:    "IPinIP",
	IPProtocolST:        "ST",
	IPProtocolTCP:       "TCP",
	IPProtocolCBT:       "CBT",
	IPProtocolEGP:       "EGP",
	IPProtocolIGP:       "IGP",
	IPProtocolBBNRCCMON: "BBNRCCMON",
	IPProtocolNVPII:     "NVPII",
	IPProtocolPUP:       "PUP",
	IPProtocolARGUS:     "ARGUS",
	IPProtocolEMCON:     "EMCON",
	IPProtocolXNET:      "XNET",
	IPProtocolCHAOS:     "CHAOS",
	IPProtocolUDP:       "UDP",
	IPProtocolIPv6:      "IPv6",
	IPProtocolIPv6Route: "IPv6Route",
	IPProtocolIPv6Frag:  "IPv6Frag",
	IPProtocolGRE:       "GRE",
	IPProtocolESP:       "ESP",
	IPProtocolAH:        "AH",
	IPProtocolICMP6:     "ICMP6",
	IPProtocolIPv6NoNxt: "IPv6NoNxt",
	IPProtocolIPv6Opts:  "IPv6Opts",
	IPProtocolOSPF:      "OSPF",
	IPProtocolPIM:       "PIM",
	IPProtocolVRRP:      "VRRP",
	IPProtocolL2TP:      "L2TP",
	IPProtocolSCTP:      "SCTP",
	IPProtocolUDPLite:   "UDPLite",
	IPProtocolMPLSInIP:  "MPLSInIP",
}

// Known reports whether p has a name in the table.
func (p IPProtocol) Known() bool {
	_, ok := ipProtocolNames[p]
	return ok
}

func (p IPProtocol) String() string {
	if name, ok := ipProtocolNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Other(%d)", uint8(p))
}
