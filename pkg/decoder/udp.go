package decoder

import (
	"firestige.xyz/pktparse/internal/wire"
	"firestige.xyz/pktparse/pkg/core"
)

const layerUDP = "udp"

// DecodeUDP decodes the 8-byte UDP header.
func DecodeUDP(data []byte) (core.UDPHeader, []byte, error) {
	r := wire.NewReader(data, layerUDP)
	var f [4]uint16
	for i := range f {
		v, err := r.Uint16()
		if err != nil {
			return core.UDPHeader{}, nil, err
		}
		f[i] = v
	}
	return core.UDPHeader{SrcPort: f[0], DstPort: f[1], Length: f[2], Checksum: f[3]}, r.Rest(), nil
}
