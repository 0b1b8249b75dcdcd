package decoder

import (
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"firestige.xyz/pktparse/pkg/core"
)

func TestDecodeIPv4(t *testing.T) {
	ip, rest, err := DecodeIPv4(ipv4Fixture)
	if err != nil {
		t.Fatalf("DecodeIPv4 failed: %v", err)
	}
	if diff := cmp.Diff(ipv4FixtureHeader, ip, cmpOpts); diff != "" {
		t.Errorf("DecodeIPv4 mismatch (-want +got):\n%s", diff)
	}
	if len(rest) != 0 {
		t.Errorf("Expected 20 bytes consumed, %d left", len(rest))
	}
	if !ip.MoreFragments() || ip.DontFragment() || !ip.IsFragment() {
		t.Errorf("Expected MF only, got flags %03b", ip.Flags)
	}
	if ip.HeaderLen() != 20 || ip.OptionsLen() != 0 {
		t.Errorf("Expected 20-byte header without options, got %d/%d", ip.HeaderLen(), ip.OptionsLen())
	}
}

func TestDecodeIPv4MatchesXNet(t *testing.T) {
	want, err := ipv4.ParseHeader(ipv4Fixture)
	require.NoError(t, err)

	got, _, err := DecodeIPv4(ipv4Fixture)
	require.NoError(t, err)

	assert.Equal(t, want.Version, int(got.Version))
	assert.Equal(t, want.Len, got.HeaderLen())
	assert.Equal(t, want.TOS, int(got.TOS))
	assert.Equal(t, want.ID, int(got.ID))
	assert.Equal(t, want.TTL, int(got.TTL))
	assert.Equal(t, want.Protocol, int(got.Protocol))
	assert.Equal(t, want.Checksum, int(got.Checksum))
	assert.Equal(t, want.Src.To4().String(), got.SrcIP.String())
	assert.Equal(t, want.Dst.To4().String(), got.DstIP.String())
}

func TestDecodeIPv4FlagsAndFragmentOffset(t *testing.T) {
	tests := []struct {
		name     string
		word     [2]byte
		flags    uint8
		fragment uint16
	}{
		{"none", [2]byte{0x00, 0x00}, 0, 0},
		{"DF", [2]byte{0x40, 0x00}, core.IPv4FlagDontFragment, 0},
		{"MF with offset", [2]byte{0x20, 0xb9}, core.IPv4FlagMoreFragments, 0xb9},
		{"reserved and max offset", [2]byte{0x9f, 0xff}, core.IPv4FlagReserved, 0x1fff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte{}, ipv4Fixture...)
			data[6], data[7] = tt.word[0], tt.word[1]

			ip, _, err := DecodeIPv4(data)
			require.NoError(t, err)
			assert.Equal(t, tt.flags, ip.Flags)
			assert.Equal(t, tt.fragment, ip.FragOffset)
		})
	}
}

func TestDecodeIPv4LeavesOptions(t *testing.T) {
	data := append([]byte{}, ipv4Fixture...)
	data[0] = 0x46 // IHL 6
	data = append(data, 0x01, 0x01, 0x01, 0x00, 0xca, 0xfe)

	ip, rest, err := DecodeIPv4(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), ip.IHL)
	assert.Equal(t, 4, ip.OptionsLen())
	assert.Len(t, rest, 6, "options must not be consumed")

	payload, err := SkipIPv4Options(ip, rest)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, payload)
}

func TestSkipIPv4OptionsErrors(t *testing.T) {
	ip := ipv4FixtureHeader
	ip.IHL = 7

	_, err := SkipIPv4Options(ip, []byte{0x01, 0x01, 0x01})
	assert.ErrorIs(t, err, core.ErrIncomplete)
	n, ok := core.NeededBytes(err)
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	ip.IHL = 4
	_, err = SkipIPv4Options(ip, nil)
	assert.ErrorIs(t, err, core.ErrMalformed)
}

func TestDecodeIPv4Serialized(t *testing.T) {
	src := &layers.IPv4{
		Version:    4,
		TOS:        0xb8,
		Id:         0xbeef,
		Flags:      layers.IPv4DontFragment,
		FragOffset: 0,
		TTL:        17,
		Protocol:   layers.IPProtocolUDP,
		SrcIP:      net.IPv4(192, 0, 2, 1),
		DstIP:      net.IPv4(198, 51, 100, 7),
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, src, gopacket.Payload([]byte("hi"))))

	ip, rest, err := DecodeIPv4(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint8(5), ip.IHL)
	assert.Equal(t, uint8(0xb8), ip.TOS)
	assert.Equal(t, uint16(22), ip.TotalLen)
	assert.Equal(t, uint16(0xbeef), ip.ID)
	assert.True(t, ip.DontFragment())
	assert.Equal(t, uint8(17), ip.TTL)
	assert.Equal(t, core.IPProtocolUDP, ip.Protocol)
	assert.Equal(t, src.Checksum, ip.Checksum)
	assert.Equal(t, netip.MustParseAddr("192.0.2.1"), ip.SrcIP)
	assert.Equal(t, netip.MustParseAddr("198.51.100.7"), ip.DstIP)
	assert.Equal(t, []byte("hi"), rest)
}

func TestDecodeIPv4TooShort(t *testing.T) {
	_, _, err := DecodeIPv4(ipv4Fixture[:19])
	if !errors.Is(err, core.ErrIncomplete) {
		t.Fatalf("Expected ErrIncomplete, got %v", err)
	}
}

func TestDecodeIPv6(t *testing.T) {
	ip, rest, err := DecodeIPv6(ipv6Fixture)
	if err != nil {
		t.Fatalf("DecodeIPv6 failed: %v", err)
	}
	if diff := cmp.Diff(ipv6FixtureHeader, ip, cmpOpts); diff != "" {
		t.Errorf("DecodeIPv6 mismatch (-want +got):\n%s", diff)
	}
	if len(rest) != 0 {
		t.Errorf("Expected 40 bytes consumed, %d left", len(rest))
	}
	if ip.TrafficClass() != 0x02 {
		t.Errorf("Expected traffic class 0x02, got 0x%02x", ip.TrafficClass())
	}
}

func TestDecodeIPv6MatchesXNet(t *testing.T) {
	want, err := ipv6.ParseHeader(ipv6Fixture)
	require.NoError(t, err)

	got, _, err := DecodeIPv6(ipv6Fixture)
	require.NoError(t, err)

	assert.Equal(t, want.Version, int(got.Version))
	assert.Equal(t, want.TrafficClass, int(got.TrafficClass()))
	assert.Equal(t, want.FlowLabel, int(got.FlowLabel))
	assert.Equal(t, want.PayloadLen, int(got.PayloadLen))
	assert.Equal(t, want.NextHeader, int(got.NextHeader))
	assert.Equal(t, want.HopLimit, int(got.HopLimit))
	assert.Equal(t, want.Src.String(), got.SrcIP.String())
	assert.Equal(t, want.Dst.String(), got.DstIP.String())
}

func TestDecodeIPv6TrafficClassBits(t *testing.T) {
	// Every traffic class value must survive the nibble split.
	for tc := 0; tc < 256; tc++ {
		data := append([]byte{}, ipv6Fixture...)
		data[0] = 0x60 | byte(tc>>4)
		data[1] = byte(tc&0x0f)<<4 | 0x0f
		data[2], data[3] = 0xab, 0xcd

		ip, _, err := DecodeIPv6(data)
		require.NoError(t, err)
		assert.Equal(t, uint8(tc>>2), ip.DS, "tc=%#x", tc)
		assert.Equal(t, uint8(tc&0x3), ip.ECN, "tc=%#x", tc)
		assert.Equal(t, uint8(tc), ip.TrafficClass(), "tc=%#x", tc)
		assert.Equal(t, uint32(0xfabcd), ip.FlowLabel, "tc=%#x", tc)
	}
}

func TestDecodeIPv6Serialized(t *testing.T) {
	src := &layers.IPv6{
		Version:      6,
		TrafficClass: 0xa5,
		FlowLabel:    0x54321,
		NextHeader:   layers.IPProtocolTCP,
		HopLimit:     255,
		SrcIP:        net.ParseIP("2001:db8::1"),
		DstIP:        net.ParseIP("2001:db8::2"),
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, src, gopacket.Payload([]byte{1, 2, 3})))

	ip, rest, err := DecodeIPv6(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint8(0xa5>>2), ip.DS)
	assert.Equal(t, uint8(0xa5&3), ip.ECN)
	assert.Equal(t, uint32(0x54321), ip.FlowLabel)
	assert.Equal(t, uint16(3), ip.PayloadLen)
	assert.Equal(t, core.IPProtocolTCP, ip.NextHeader)
	assert.Equal(t, uint8(255), ip.HopLimit)
	assert.Equal(t, netip.MustParseAddr("2001:db8::1"), ip.SrcIP)
	assert.Equal(t, netip.MustParseAddr("2001:db8::2"), ip.DstIP)
	assert.Equal(t, []byte{1, 2, 3}, rest)
}

func TestDecodeIPv6TooShort(t *testing.T) {
	_, _, err := DecodeIPv6(ipv6Fixture[:39])
	if !errors.Is(err, core.ErrIncomplete) {
		t.Fatalf("Expected ErrIncomplete, got %v", err)
	}
}

func BenchmarkDecodeIPv4(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = DecodeIPv4(ipv4Fixture)
	}
}

func BenchmarkDecodeIPv6(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = DecodeIPv6(ipv6Fixture)
	}
}
