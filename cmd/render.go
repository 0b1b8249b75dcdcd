package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"firestige.xyz/pktparse/pkg/core"
	"firestige.xyz/pktparse/pkg/decoder"
)

// Output formats accepted by --output.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type recordEncoder interface {
	Encode(v any) error
}

// newEncoder returns an encoder writing one document per record, and a
// function that flushes it.
func newEncoder(format string, w io.Writer) (recordEncoder, func() error, error) {
	switch strings.ToLower(format) {
	case formatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return enc, enc.Close, nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported output format: %s (must be yaml or json)", format)
	}
}

type frameView struct {
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
	Frame     int    `json:"frame,omitempty" yaml:"frame,omitempty"`
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Length    int    `json:"length" yaml:"length"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`

	Layers     []string      `json:"layers,omitempty" yaml:"layers,omitempty"`
	Ethernet   *ethernetView `json:"ethernet,omitempty" yaml:"ethernet,omitempty"`
	VLANs      []vlanView    `json:"vlans,omitempty" yaml:"vlans,omitempty"`
	ARP        *arpView      `json:"arp,omitempty" yaml:"arp,omitempty"`
	IPv4       *ipv4View     `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv6       *ipv6View     `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
	ICMP       *icmpView     `json:"icmp,omitempty" yaml:"icmp,omitempty"`
	TCP        *tcpView      `json:"tcp,omitempty" yaml:"tcp,omitempty"`
	UDP        *udpView      `json:"udp,omitempty" yaml:"udp,omitempty"`
	PayloadLen int           `json:"payload_len" yaml:"payload_len"`
}

// layerView wraps the record of a single-layer decode.
type layerView struct {
	Layer     string `json:"layer" yaml:"layer"`
	Record    any    `json:"record" yaml:"record"`
	Remaining int    `json:"remaining" yaml:"remaining"`
}

type ethernetView struct {
	Dst          string `json:"dst" yaml:"dst"`
	Src          string `json:"src" yaml:"src"`
	EtherType    string `json:"ethertype" yaml:"ethertype"`
	Tagged       bool   `json:"tagged,omitempty" yaml:"tagged,omitempty"`
	VLANID       uint16 `json:"vlan_id,omitempty" yaml:"vlan_id,omitempty"`
	Priority     uint8  `json:"priority,omitempty" yaml:"priority,omitempty"`
	DropEligible bool   `json:"drop_eligible,omitempty" yaml:"drop_eligible,omitempty"`
}

type vlanView struct {
	ID        uint16 `json:"id" yaml:"id"`
	TCI       uint16 `json:"tci" yaml:"tci"`
	EtherType string `json:"ethertype" yaml:"ethertype"`
}

type arpView struct {
	HWType    string `json:"hw_type" yaml:"hw_type"`
	ProtoType string `json:"proto_type" yaml:"proto_type"`
	HWSize    uint8  `json:"hw_size" yaml:"hw_size"`
	ProtoSize uint8  `json:"proto_size" yaml:"proto_size"`
	Operation string `json:"operation" yaml:"operation"`
	SrcMAC    string `json:"src_mac" yaml:"src_mac"`
	SrcIP     string `json:"src_ip" yaml:"src_ip"`
	DstMAC    string `json:"dst_mac" yaml:"dst_mac"`
	DstIP     string `json:"dst_ip" yaml:"dst_ip"`
}

type ipv4View struct {
	Version    uint8  `json:"version" yaml:"version"`
	IHL        uint8  `json:"ihl" yaml:"ihl"`
	TOS        uint8  `json:"tos" yaml:"tos"`
	TotalLen   uint16 `json:"total_len" yaml:"total_len"`
	ID         uint16 `json:"id" yaml:"id"`
	Flags      uint8  `json:"flags" yaml:"flags"`
	FragOffset uint16 `json:"frag_offset" yaml:"frag_offset"`
	TTL        uint8  `json:"ttl" yaml:"ttl"`
	Protocol   string `json:"protocol" yaml:"protocol"`
	Checksum   uint16 `json:"checksum" yaml:"checksum"`
	Src        string `json:"src" yaml:"src"`
	Dst        string `json:"dst" yaml:"dst"`
}

type ipv6View struct {
	Version    uint8  `json:"version" yaml:"version"`
	DS         uint8  `json:"ds" yaml:"ds"`
	ECN        uint8  `json:"ecn" yaml:"ecn"`
	FlowLabel  uint32 `json:"flow_label" yaml:"flow_label"`
	PayloadLen uint16 `json:"payload_len" yaml:"payload_len"`
	NextHeader string `json:"next_header" yaml:"next_header"`
	HopLimit   uint8  `json:"hop_limit" yaml:"hop_limit"`
	Src        string `json:"src" yaml:"src"`
	Dst        string `json:"dst" yaml:"dst"`
}

type icmpView struct {
	Type       uint8     `json:"type" yaml:"type"`
	Code       uint8     `json:"code" yaml:"code"`
	Message    string    `json:"message" yaml:"message"`
	Checksum   uint16    `json:"checksum" yaml:"checksum"`
	NextHopMTU uint16    `json:"next_hop_mtu,omitempty" yaml:"next_hop_mtu,omitempty"`
	Gateway    string    `json:"gateway,omitempty" yaml:"gateway,omitempty"`
	Quoted     *ipv4View `json:"quoted,omitempty" yaml:"quoted,omitempty"`
	QuotedData string    `json:"quoted_data,omitempty" yaml:"quoted_data,omitempty"`
}

type tcpView struct {
	SrcPort    uint16   `json:"src_port" yaml:"src_port"`
	DstPort    uint16   `json:"dst_port" yaml:"dst_port"`
	Seq        uint32   `json:"seq" yaml:"seq"`
	Ack        uint32   `json:"ack" yaml:"ack"`
	DataOffset uint8    `json:"data_offset" yaml:"data_offset"`
	Flags      []string `json:"flags,omitempty" yaml:"flags,omitempty"`
	Window     uint16   `json:"window" yaml:"window"`
	Checksum   uint16   `json:"checksum" yaml:"checksum"`
	Urgent     uint16   `json:"urgent" yaml:"urgent"`
	Options    []string `json:"options,omitempty" yaml:"options,omitempty"`
}

type udpView struct {
	SrcPort  uint16 `json:"src_port" yaml:"src_port"`
	DstPort  uint16 `json:"dst_port" yaml:"dst_port"`
	Length   uint16 `json:"length" yaml:"length"`
	Checksum uint16 `json:"checksum" yaml:"checksum"`
}

// fillPacket copies a chained decode result into v.
func (v *frameView) fillPacket(pkt *decoder.Packet) {
	v.Layers = pkt.Layers
	v.Ethernet = viewEthernet(pkt.Ethernet)
	for _, tag := range pkt.VLANs {
		v.VLANs = append(v.VLANs, viewVLANTag(tag))
	}
	if pkt.ARP != nil {
		v.ARP = viewARP(*pkt.ARP)
	}
	if pkt.IPv4 != nil {
		v.IPv4 = viewIPv4(*pkt.IPv4)
	}
	if pkt.IPv6 != nil {
		v.IPv6 = viewIPv6(*pkt.IPv6)
	}
	if pkt.ICMP != nil {
		v.ICMP = viewICMP(*pkt.ICMP)
	}
	if pkt.TCP != nil {
		v.TCP = viewTCP(*pkt.TCP)
	}
	if pkt.UDP != nil {
		v.UDP = viewUDP(*pkt.UDP)
	}
	v.PayloadLen = len(pkt.Payload)
}

func viewEthernet(f core.EthernetFrame) *ethernetView {
	return &ethernetView{Dst: f.DstMAC.String(), Src: f.SrcMAC.String(), EtherType: f.EtherType.String()}
}

func viewVLANEthernet(f core.VLANEthernetFrame) *ethernetView {
	v := &ethernetView{Dst: f.DstMAC.String(), Src: f.SrcMAC.String(), EtherType: f.EtherType.String()}
	if f.Tagged {
		v.Tagged = true
		v.VLANID = f.VLANID()
		v.Priority = f.Priority()
		v.DropEligible = f.DropEligible()
	}
	return v
}

func viewVLANTag(t core.VLANTag) vlanView {
	return vlanView{ID: t.ID(), TCI: t.TCI, EtherType: t.EtherType.String()}
}

func viewARP(p core.ArpPacket) *arpView {
	return &arpView{
		HWType:    p.HWAddrType.String(),
		ProtoType: p.ProtoAddrType.String(),
		HWSize:    p.HWAddrSize,
		ProtoSize: p.ProtoAddrSize,
		Operation: p.Operation.String(),
		SrcMAC:    p.SrcMAC.String(),
		SrcIP:     p.SrcIP.String(),
		DstMAC:    p.DstMAC.String(),
		DstIP:     p.DstIP.String(),
	}
}

func viewIPv4(h core.IPv4Header) *ipv4View {
	return &ipv4View{
		Version:    h.Version,
		IHL:        h.IHL,
		TOS:        h.TOS,
		TotalLen:   h.TotalLen,
		ID:         h.ID,
		Flags:      h.Flags,
		FragOffset: h.FragOffset,
		TTL:        h.TTL,
		Protocol:   h.Protocol.String(),
		Checksum:   h.Checksum,
		Src:        h.SrcIP.String(),
		Dst:        h.DstIP.String(),
	}
}

func viewIPv6(h core.IPv6Header) *ipv6View {
	return &ipv6View{
		Version:    h.Version,
		DS:         h.DS,
		ECN:        h.ECN,
		FlowLabel:  h.FlowLabel,
		PayloadLen: h.PayloadLen,
		NextHeader: h.NextHeader.String(),
		HopLimit:   h.HopLimit,
		Src:        h.SrcIP.String(),
		Dst:        h.DstIP.String(),
	}
}

func viewICMP(h core.ICMPHeader) *icmpView {
	v := &icmpView{
		Type:     h.Code.Type(),
		Code:     h.Code.Code(),
		Message:  h.Code.String(),
		Checksum: h.Checksum,
	}
	switch d := h.Data.(type) {
	case *core.ICMPUnreachableData:
		v.NextHopMTU = d.NextHopMTU
		v.Quoted = viewIPv4(d.Header)
		v.QuotedData = hex.EncodeToString(d.Packet[:])
	case *core.ICMPRedirectData:
		v.Gateway = d.Gateway.String()
		v.Quoted = viewIPv4(d.Header)
		v.QuotedData = hex.EncodeToString(d.Packet[:])
	case *core.ICMPTimeExceededData:
		v.Quoted = viewIPv4(d.Header)
		v.QuotedData = hex.EncodeToString(d.Packet[:])
	}
	return v
}

func viewTCP(h core.TCPHeader) *tcpView {
	v := &tcpView{
		SrcPort:    h.SrcPort,
		DstPort:    h.DstPort,
		Seq:        h.Seq,
		Ack:        h.Ack,
		DataOffset: h.DataOffset,
		Window:     h.Window,
		Checksum:   h.Checksum,
		Urgent:     h.Urgent,
		Options:    viewTCPOptions(h.Options),
	}
	for _, f := range [...]struct {
		set  bool
		name string
	}{
		{h.URG, "URG"}, {h.ACK, "ACK"}, {h.PSH, "PSH"},
		{h.RST, "RST"}, {h.SYN, "SYN"}, {h.FIN, "FIN"},
	} {
		if f.set {
			v.Flags = append(v.Flags, f.name)
		}
	}
	return v
}

func viewTCPOptions(opts []core.TCPOption) []string {
	var out []string
	for _, o := range opts {
		out = append(out, o.String())
	}
	return out
}

func viewUDP(h core.UDPHeader) *udpView {
	return &udpView{SrcPort: h.SrcPort, DstPort: h.DstPort, Length: h.Length, Checksum: h.Checksum}
}
