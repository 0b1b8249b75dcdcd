package decoder

import (
	"encoding/hex"
	"net/netip"
	"strings"

	"github.com/google/go-cmp/cmp"

	"firestige.xyz/pktparse/pkg/core"
)

// hexBytes decodes a whitespace separated hex dump.
func hexBytes(s string) []byte {
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		panic(err)
	}
	return b
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b netip.Addr) bool { return a == b }),
}

var (
	// Fragment of an ICMP datagram from 10.10.1.135 to 10.10.1.180.
	ipv4Fixture = hexBytes("45 00 05dc 1ae6 2000 40 01 22ed 0a0a0187 0a0a01b4")

	ipv4FixtureHeader = core.IPv4Header{
		Version:    4,
		IHL:        5,
		TOS:        0,
		TotalLen:   1500,
		ID:         0x1ae6,
		Flags:      core.IPv4FlagMoreFragments,
		FragOffset: 0,
		TTL:        64,
		Protocol:   core.IPProtocolICMP,
		Checksum:   0x22ed,
		SrcIP:      netip.MustParseAddr("10.10.1.135"),
		DstIP:      netip.MustParseAddr("10.10.1.180"),
	}

	ipv6Fixture = hexBytes(`
		60 20 01ff 0578 3a 05
		20010db8 5cf81aa8 248161e6 5ac603e0
		20010db8 78902ae9 908fa9f4 2f4a9b80`)

	ipv6FixtureHeader = core.IPv6Header{
		Version:    6,
		DS:         0,
		ECN:        2,
		FlowLabel:  511,
		PayloadLen: 1400,
		NextHeader: core.IPProtocolICMP6,
		HopLimit:   5,
		SrcIP:      netip.MustParseAddr("2001:db8:5cf8:1aa8:2481:61e6:5ac6:3e0"),
		DstIP:      netip.MustParseAddr("2001:db8:7890:2ae9:908f:a9f4:2f4a:9b80"),
	}

	ethernetFixture = hexBytes("0023 5407 936c 001b 210f 919b 0800")

	arpFixture = hexBytes(`
		0001 0800 06 04 0001
		001b210f919b 0a0a0187
		deadc000ffee c0a801fd`)

	udpFixture = hexBytes("0012 1111 001b 210f")

	// ACK|PSH, window 256, no options.
	tcpFixture = hexBytes("c21f 0050 0fd87f4c eb2f05c8 5018 0100 7c29 0000")

	// SYN|ACK, data offset 8: MSS(1338) NOP WS(4) SACKPermitted EOL pad.
	tcpOptionsFixture = hexBytes(`
		c21f 0050 0fd87f4c eb2f05c8 8012 7210 0000 0000
		0204053a 01 030304 0402 00 00`)

	icmpEcho = core.ICMPPayloadPacket{1, 2, 3, 4, 5, 6, 7, 8}

	icmpUnreachableFixture = concat(
		hexBytes("03 01 aabb 0000 0007"), ipv4Fixture, icmpEcho[:])

	icmpRedirectFixture = concat(
		hexBytes("05 01 aabb 0a0a0186"), ipv4Fixture, icmpEcho[:])

	icmpTimeExceededFixture = concat(
		hexBytes("0b 00 aabb 00000000"), ipv4Fixture, icmpEcho[:])

	// Echo request: id 0x0102, seq 0x0003, 4 bytes of data.
	icmpEchoFixture = hexBytes("08 00 f7fc 0102 0003 deadbeef")
)
