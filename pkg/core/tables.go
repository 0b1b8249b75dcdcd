package core

import (
	"maps"
	"slices"
)

// EtherTypes returns every named EtherType in ascending order.
func EtherTypes() []EtherType { return slices.Sorted(maps.Keys(etherTypeNames)) }

// IPProtocols returns every named IPProtocol in ascending order.
func IPProtocols() []IPProtocol { return slices.Sorted(maps.Keys(ipProtocolNames)) }

// ICMPCodes returns every (type, code) pair the ICMP table names, in
// ascending raw order. Families that accept any code (echo, timestamp and
// the like) are listed with code 0.
func ICMPCodes() []ICMPCode {
	var codes []ICMPCode
	for t := 0; t < 256; t++ {
		for c := 0; c < 256; c++ {
			code := ICMPCodeFrom(uint16(t)<<8 | uint16(c))
			if code.Kind == ICMPOther {
				continue
			}
			if c > 0 && !hasSubReason(code.Kind) {
				break
			}
			codes = append(codes, code)
		}
	}
	return codes
}

func hasSubReason(k ICMPKind) bool {
	switch k {
	case ICMPDestinationUnreachable, ICMPRedirect, ICMPTimeExceeded,
		ICMPParameterProblem, ICMPExtendedEchoReply, ICMPSourceQuench:
		return true
	}
	return false
}
