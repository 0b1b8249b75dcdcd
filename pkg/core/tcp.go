package core

import "fmt"

// TCPHeaderMinLen is the size of a TCP header without options.
const TCPHeaderMinLen = 20

// TCP control flags as packed in the low six bits of byte 13.
const (
	TCPFlagFIN uint8 = 1 << iota
	TCPFlagSYN
	TCPFlagRST
	TCPFlagPSH
	TCPFlagACK
	TCPFlagURG
)

// TCPOptionKind is the tag byte of a TCP option. Only the five kinds below
// are understood; any other tag makes the option chain malformed.
type TCPOptionKind uint8

const (
	TCPOptionEndOfOptions  TCPOptionKind = 0
	TCPOptionNoOperation   TCPOptionKind = 1
	TCPOptionMSS           TCPOptionKind = 2
	TCPOptionWindowScale   TCPOptionKind = 3
	TCPOptionSACKPermitted TCPOptionKind = 4
)

var tcpOptionKindNames = [...]string{"EndOfOptions", "NoOperation", "MaximumSegmentSize", "WindowScale", "SackPermitted"}

func (k TCPOptionKind) String() string { return lookupName(tcpOptionKindNames[:], uint8(k)) }

// TCPOption is one decoded option. MSS is set only for TCPOptionMSS and
// WindowScale only for TCPOptionWindowScale.
type TCPOption struct {
	Kind        TCPOptionKind
	MSS         uint16
	WindowScale uint8
}

func (o TCPOption) String() string {
	switch o.Kind {
	case TCPOptionMSS:
		return fmt.Sprintf("%s(%d)", o.Kind, o.MSS)
	case TCPOptionWindowScale:
		return fmt.Sprintf("%s(%d)", o.Kind, o.WindowScale)
	default:
		return o.Kind.String()
	}
}

// TCPHeader is a decoded TCP header. DataOffset is the raw word count.
// Options is nil when DataOffset is 5. RawOptions aliases the caller's
// buffer and is only valid as long as that buffer is.
type TCPHeader struct {
	SrcPort    uint16
	DstPort    uint16
	Seq        uint32
	Ack        uint32
	DataOffset uint8 // header length in 32-bit words
	Reserved   uint8 // 6 bits
	URG        bool
	ACK        bool
	PSH        bool
	RST        bool
	SYN        bool
	FIN        bool
	Window     uint16
	Checksum   uint16 // not verified
	Urgent     uint16
	Options    []TCPOption
	RawOptions []byte
}

// HeaderLen returns the header length in bytes as declared by DataOffset.
func (h TCPHeader) HeaderLen() int { return int(h.DataOffset) * 4 }

// Flags packs the six control bits back into their wire layout.
func (h TCPHeader) Flags() uint8 {
	var f uint8
	for _, b := range [...]struct {
		set  bool
		mask uint8
	}{
		{h.FIN, TCPFlagFIN}, {h.SYN, TCPFlagSYN}, {h.RST, TCPFlagRST},
		{h.PSH, TCPFlagPSH}, {h.ACK, TCPFlagACK}, {h.URG, TCPFlagURG},
	} {
		if b.set {
			f |= b.mask
		}
	}
	return f
}
