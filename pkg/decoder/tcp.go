package decoder

import (
	"fmt"

	"firestige.xyz/pktparse/internal/wire"
	"firestige.xyz/pktparse/pkg/core"
)

const (
	layerTCP        = "tcp"
	layerTCPOptions = "tcp options"
)

// DecodeTCP decodes a TCP header including its option span. The remainder
// starts at the first payload byte.
//
// A data offset below 5 is malformed. When the input ends inside the
// option span the error is incomplete and reports the shortfall.
func DecodeTCP(data []byte) (core.TCPHeader, []byte, error) {
	r := wire.NewReader(data, layerTCP)
	var (
		h   core.TCPHeader
		err error
	)

	if h.SrcPort, err = r.Uint16(); err != nil {
		return core.TCPHeader{}, nil, err
	}
	if h.DstPort, err = r.Uint16(); err != nil {
		return core.TCPHeader{}, nil, err
	}
	if h.Seq, err = r.Uint32(); err != nil {
		return core.TCPHeader{}, nil, err
	}
	if h.Ack, err = r.Uint32(); err != nil {
		return core.TCPHeader{}, nil, err
	}

	// data offset | reserved | URG ACK PSH RST SYN FIN
	var f [3]uint32
	if err = r.Fields(f[:], 4, 6, 6); err != nil {
		return core.TCPHeader{}, nil, err
	}
	h.DataOffset = uint8(f[0])
	h.Reserved = uint8(f[1])
	flags := uint8(f[2])
	h.URG = flags&core.TCPFlagURG != 0
	h.ACK = flags&core.TCPFlagACK != 0
	h.PSH = flags&core.TCPFlagPSH != 0
	h.RST = flags&core.TCPFlagRST != 0
	h.SYN = flags&core.TCPFlagSYN != 0
	h.FIN = flags&core.TCPFlagFIN != 0

	if h.Window, err = r.Uint16(); err != nil {
		return core.TCPHeader{}, nil, err
	}
	if h.Checksum, err = r.Uint16(); err != nil {
		return core.TCPHeader{}, nil, err
	}
	if h.Urgent, err = r.Uint16(); err != nil {
		return core.TCPHeader{}, nil, err
	}

	if h.DataOffset < 5 {
		return core.TCPHeader{}, nil, r.Malformed(fmt.Sprintf("data offset %d below minimum 5", h.DataOffset))
	}
	if h.DataOffset > 5 {
		span, err := r.Bytes(h.HeaderLen() - core.TCPHeaderMinLen)
		if err != nil {
			return core.TCPHeader{}, nil, err
		}
		h.RawOptions = span
		if h.Options, err = DecodeTCPOptions(span); err != nil {
			return core.TCPHeader{}, nil, err
		}
	}
	return h, r.Rest(), nil
}

// DecodeTCPOptions walks a complete option span. It stops after
// EndOfOptions or when the span is used up, whichever comes first; a span
// without a terminator is accepted. An unknown kind, or an option whose
// fields run past the end of the span, is malformed.
//
// The length byte of MSS, WindowScale and SACKPermitted is read but not
// checked.
func DecodeTCPOptions(span []byte) ([]core.TCPOption, error) {
	r := wire.NewReader(span, layerTCPOptions)
	var opts []core.TCPOption
	for r.Len() > 0 {
		start := r.Offset()
		kind, _ := r.Uint8()
		opt := core.TCPOption{Kind: core.TCPOptionKind(kind)}

		var err error
		switch opt.Kind {
		case core.TCPOptionEndOfOptions:
			return append(opts, opt), nil
		case core.TCPOptionNoOperation:
		case core.TCPOptionMSS:
			if err = r.Skip(1); err == nil {
				opt.MSS, err = r.Uint16()
			}
		case core.TCPOptionWindowScale:
			if err = r.Skip(1); err == nil {
				opt.WindowScale, err = r.Uint8()
			}
		case core.TCPOptionSACKPermitted:
			err = r.Skip(1)
		default:
			return nil, &core.MalformedError{
				Layer:  layerTCPOptions,
				Offset: start,
				Reason: fmt.Sprintf("unknown option kind %d", kind),
			}
		}
		if err != nil {
			return nil, &core.MalformedError{
				Layer:  layerTCPOptions,
				Offset: start,
				Reason: fmt.Sprintf("option %s overruns option span", opt.Kind),
			}
		}
		opts = append(opts, opt)
	}
	return opts, nil
}
