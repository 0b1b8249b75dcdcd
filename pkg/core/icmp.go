package core

import (
	"fmt"
	"net/netip"
)

// ICMP message types that carry an embedded datagram.
const (
	ICMPTypeDestinationUnreachable uint8 = 3
	ICMPTypeRedirect               uint8 = 5
	ICMPTypeTimeExceeded           uint8 = 11
)

// ICMPKind is the message family selected by the (type, code) pair.
type ICMPKind uint8

const (
	ICMPOther ICMPKind = iota // unrecognized (type, code) pair
	ICMPEchoReply
	ICMPReserved
	ICMPDestinationUnreachable
	ICMPSourceQuench
	ICMPRedirect
	ICMPEchoRequest
	ICMPRouterAdvertisement
	ICMPRouterSolicitation
	ICMPTimeExceeded
	ICMPParameterProblem
	ICMPTimestamp
	ICMPTimestampReply
	ICMPExtendedEchoRequest
	ICMPExtendedEchoReply
)

var icmpKindNames = [...]string{
	ICMPOther:                  "Other",
	ICMPEchoReply:              "EchoReply",
	ICMPReserved:               "Reserved",
	ICMPDestinationUnreachable: "DestinationUnreachable",
	ICMPSourceQuench:           "SourceQuench",
	ICMPRedirect:               "Redirect",
	ICMPEchoRequest:            "EchoRequest",
	ICMPRouterAdvertisement:    "RouterAdvertisement",
	ICMPRouterSolicitation:     "RouterSolicitation",
	ICMPTimeExceeded:           "TimeExceeded",
	ICMPParameterProblem:       "ParameterProblem",
	ICMPTimestamp:              "Timestamp",
	ICMPTimestampReply:         "TimestampReply",
	ICMPExtendedEchoRequest:    "ExtendedEchoRequest",
	ICMPExtendedEchoReply:      "ExtendedEchoReply",
}

func (k ICMPKind) String() string {
	if int(k) < len(icmpKindNames) {
		return icmpKindNames[k]
	}
	return fmt.Sprintf("ICMPKind(%d)", uint8(k))
}

// Unreachable is the code of a Destination Unreachable message.
type Unreachable uint8

const (
	UnreachableNetwork Unreachable = iota
	UnreachableHost
	UnreachableProtocol
	UnreachablePort
	UnreachableFragmentationRequired
	UnreachableSourceRouteFailed
	UnreachableNetworkUnknown
	UnreachableHostUnknown
	UnreachableSourceHostIsolated
	UnreachableNetworkAdministrativelyProhibited
	UnreachableHostAdministrativelyProhibited
	UnreachableNetworkForTOS
	UnreachableHostForTOS
	UnreachableCommunicationAdministrativelyProhibited
	UnreachableHostPrecedenceViolation
	UnreachablePrecedenceCutoffInEffect
)

var unreachableNames = [...]string{
	"DestinationNetworkUnreachable",
	"DestinationHostUnreachable",
	"DestinationProtocolUnreachable",
	"DestinationPortUnreachable",
	"FragmentationRequired",
	"SourceRouteFailed",
	"DestinationNetworkUnknown",
	"DestinationHostUnknown",
	"SourceHostIsolated",
	"NetworkAdministrativelyProhibited",
	"HostAdministrativelyProhibited",
	"NetworkUnreachableForTOS",
	"HostUnreachableForTOS",
	"CommunicationAdministrativelyProhibited",
	"HostPrecedenceViolation",
	"PrecedenceCutoffInEffect",
}

func (u Unreachable) String() string { return lookupName(unreachableNames[:], uint8(u)) }

// Redirect is the code of a Redirect message.
type Redirect uint8

const (
	RedirectNetwork Redirect = iota
	RedirectHost
	RedirectTOSAndNetwork
	RedirectTOSAndHost
)

var redirectNames = [...]string{"Network", "Host", "TOSAndNetwork", "TOSAndHost"}

func (r Redirect) String() string { return lookupName(redirectNames[:], uint8(r)) }

// TimeExceeded is the code of a Time Exceeded message.
type TimeExceeded uint8

const (
	TimeExceededTTL TimeExceeded = iota
	TimeExceededFragmentReassembly
)

var timeExceededNames = [...]string{"TTL", "FragmentReassembly"}

func (t TimeExceeded) String() string { return lookupName(timeExceededNames[:], uint8(t)) }

// ParameterProblem is the code of a Parameter Problem message.
type ParameterProblem uint8

const (
	ParameterProblemPointer ParameterProblem = iota
	ParameterProblemMissingRequiredOption
	ParameterProblemBadLength
)

var parameterProblemNames = [...]string{"Pointer", "MissingRequiredOption", "BadLength"}

func (p ParameterProblem) String() string { return lookupName(parameterProblemNames[:], uint8(p)) }

// ExtendedEchoReply is the code of an Extended Echo Reply message.
type ExtendedEchoReply uint8

const (
	ExtendedEchoReplyNoError ExtendedEchoReply = iota
	ExtendedEchoReplyMalformedQuery
	ExtendedEchoReplyNoSuchInterface
	ExtendedEchoReplyNoSuchTableEntry
	ExtendedEchoReplyMultipleInterfacesSatisfyQuery
)

var extendedEchoReplyNames = [...]string{
	"NoError", "MalformedQuery", "NoSuchInterface", "NoSuchTableEntry", "MultipleInterfacesSatisfyQuery",
}

func (e ExtendedEchoReply) String() string { return lookupName(extendedEchoReplyNames[:], uint8(e)) }

func lookupName(names []string, v uint8) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("Other(%d)", v)
}

// ICMPCode is the decoded (type, code) pair. Raw always holds type<<8|code;
// Kind is ICMPOther when the pair is not in the table. For the families with
// a sub-reason the accessor methods return it.
type ICMPCode struct {
	Kind ICMPKind
	Raw  uint16
}

// ICMPCodeFrom maps a raw type<<8|code value to its ICMPCode. It never fails.
func ICMPCodeFrom(raw uint16) ICMPCode {
	t, c := uint8(raw>>8), uint8(raw)
	kind := ICMPOther
	switch t {
	case 0:
		kind = ICMPEchoReply
	case 1, 2, 7:
		kind = ICMPReserved
	case 3:
		if c < uint8(len(unreachableNames)) {
			kind = ICMPDestinationUnreachable
		}
	case 4:
		if c == 0 {
			kind = ICMPSourceQuench
		}
	case 5:
		if c < uint8(len(redirectNames)) {
			kind = ICMPRedirect
		}
	case 8:
		kind = ICMPEchoRequest
	case 9:
		kind = ICMPRouterAdvertisement
	case 10:
		kind = ICMPRouterSolicitation
	case 11:
		if c < uint8(len(timeExceededNames)) {
			kind = ICMPTimeExceeded
		}
	case 12:
		if c < uint8(len(parameterProblemNames)) {
			kind = ICMPParameterProblem
		}
	case 13:
		kind = ICMPTimestamp
	case 14:
		kind = ICMPTimestampReply
	case 42:
		kind = ICMPExtendedEchoRequest
	case 43:
		if c < uint8(len(extendedEchoReplyNames)) {
			kind = ICMPExtendedEchoReply
		}
	}
	return ICMPCode{Kind: kind, Raw: raw}
}

// Type returns the ICMP type byte.
func (c ICMPCode) Type() uint8 { return uint8(c.Raw >> 8) }

// Code returns the ICMP code byte.
func (c ICMPCode) Code() uint8 { return uint8(c.Raw) }

// Unreachable returns the sub-reason of a Destination Unreachable code.
func (c ICMPCode) Unreachable() (Unreachable, bool) {
	return Unreachable(c.Code()), c.Kind == ICMPDestinationUnreachable
}

// Redirect returns the sub-reason of a Redirect code.
func (c ICMPCode) Redirect() (Redirect, bool) {
	return Redirect(c.Code()), c.Kind == ICMPRedirect
}

// TimeExceeded returns the sub-reason of a Time Exceeded code.
func (c ICMPCode) TimeExceeded() (TimeExceeded, bool) {
	return TimeExceeded(c.Code()), c.Kind == ICMPTimeExceeded
}

// ParameterProblem returns the sub-reason of a Parameter Problem code.
func (c ICMPCode) ParameterProblem() (ParameterProblem, bool) {
	return ParameterProblem(c.Code()), c.Kind == ICMPParameterProblem
}

// ExtendedEchoReply returns the sub-reason of an Extended Echo Reply code.
func (c ICMPCode) ExtendedEchoReply() (ExtendedEchoReply, bool) {
	return ExtendedEchoReply(c.Code()), c.Kind == ICMPExtendedEchoReply
}

// String renders the code the way it reads in a protocol trace, e.g.
// DestinationUnreachable(DestinationHostUnreachable) or Other(0x0310).
func (c ICMPCode) String() string {
	switch c.Kind {
	case ICMPOther:
		return fmt.Sprintf("Other(0x%04x)", c.Raw)
	case ICMPDestinationUnreachable:
		return fmt.Sprintf("%s(%s)", c.Kind, Unreachable(c.Code()))
	case ICMPRedirect:
		return fmt.Sprintf("%s(%s)", c.Kind, Redirect(c.Code()))
	case ICMPTimeExceeded:
		return fmt.Sprintf("%s(%s)", c.Kind, TimeExceeded(c.Code()))
	case ICMPParameterProblem:
		return fmt.Sprintf("%s(%s)", c.Kind, ParameterProblem(c.Code()))
	case ICMPExtendedEchoReply:
		return fmt.Sprintf("%s(%s)", c.Kind, ExtendedEchoReply(c.Code()))
	default:
		return c.Kind.String()
	}
}

// ICMPPayloadPacket holds the first 8 bytes of the datagram that triggered
// an error message.
type ICMPPayloadPacket [8]byte

// ICMPData is the type-dependent body of an ICMP message. It is one of
// *ICMPUnreachableData, *ICMPRedirectData or *ICMPTimeExceededData, or nil
// for message types without an embedded datagram.
type ICMPData interface {
	icmpData()
}

// ICMPUnreachableData is the body of a Destination Unreachable message.
type ICMPUnreachableData struct {
	NextHopMTU uint16
	Header     IPv4Header
	Packet     ICMPPayloadPacket
}

// ICMPRedirectData is the body of a Redirect message.
type ICMPRedirectData struct {
	Gateway netip.Addr
	Header  IPv4Header
	Packet  ICMPPayloadPacket
}

// ICMPTimeExceededData is the body of a Time Exceeded message.
type ICMPTimeExceededData struct {
	Header IPv4Header
	Packet ICMPPayloadPacket
}

func (*ICMPUnreachableData) icmpData()  {}
func (*ICMPRedirectData) icmpData()     {}
func (*ICMPTimeExceededData) icmpData() {}

// ICMPHeader is a decoded ICMPv4 message header.
type ICMPHeader struct {
	Code     ICMPCode
	Checksum uint16 // not verified
	Data     ICMPData
}
