package core

import "net/netip"

// IPv4 flag bits as they appear in the 3-bit Flags field.
const (
	IPv4FlagReserved      uint8 = 0b100
	IPv4FlagDontFragment  uint8 = 0b010
	IPv4FlagMoreFragments uint8 = 0b001
)

// IPv4HeaderMinLen is the size of an IPv4 header without options.
const IPv4HeaderMinLen = 20

// IPv4Header is the fixed 20-byte part of an IPv4 header. Version is
// reported as found on the wire, not validated. IHL is the raw word count;
// options beyond the first 20 bytes are not decoded.
type IPv4Header struct {
	Version    uint8
	IHL        uint8 // header length in 32-bit words
	TOS        uint8
	TotalLen   uint16
	ID         uint16
	Flags      uint8  // 3 bits
	FragOffset uint16 // 13 bits, in 8-byte units
	TTL        uint8
	Protocol   IPProtocol
	Checksum   uint16 // not verified
	SrcIP      netip.Addr
	DstIP      netip.Addr
}

// HeaderLen returns the header length in bytes as declared by IHL.
func (h IPv4Header) HeaderLen() int { return int(h.IHL) * 4 }

// OptionsLen returns the number of option bytes that follow the fixed
// header, or 0 when IHL declares no options (or an invalid length below 5).
func (h IPv4Header) OptionsLen() int {
	if n := h.HeaderLen() - IPv4HeaderMinLen; n > 0 {
		return n
	}
	return 0
}

// DontFragment reports the DF flag.
func (h IPv4Header) DontFragment() bool { return h.Flags&IPv4FlagDontFragment != 0 }

// MoreFragments reports the MF flag.
func (h IPv4Header) MoreFragments() bool { return h.Flags&IPv4FlagMoreFragments != 0 }

// IsFragment reports whether the datagram is one piece of a fragmented
// datagram: MF set or a non-zero fragment offset.
func (h IPv4Header) IsFragment() bool { return h.MoreFragments() || h.FragOffset != 0 }
