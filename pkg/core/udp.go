package core

// UDPHeaderLen is the size of a UDP header.
const UDPHeaderLen = 8

// UDPHeader is a decoded UDP header.
type UDPHeader struct {
	SrcPort  uint16
	DstPort  uint16
	Length   uint16 // header plus data, as declared
	Checksum uint16 // not verified
}
