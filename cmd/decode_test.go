package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"firestige.xyz/pktparse/internal/config"
	"firestige.xyz/pktparse/internal/pipeline"
	"firestige.xyz/pktparse/pkg/core"
	"firestige.xyz/pktparse/pkg/decoder"
)

const (
	arpFrameHex = "ffffffffffff 001122334455 0806 " +
		"0001 0800 06 04 0001 001122334455 c0a80101 000000000000 c0a80102"
	udpFrameHex = "001122334455 66778899aabb 0800 " +
		"4500 0024 0001 0000 4011 0000 c0a80001 c0a80002 " +
		"0035 d431 0010 0000 " +
		"deadbeef cafebabe"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := parseHex(s)
	require.NoError(t, err)
	return data
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input    string
		expected []byte
	}{
		{"0a0b", []byte{0x0a, 0x0b}},
		{"0x0a0b", []byte{0x0a, 0x0b}},
		{"0a:0b:0c", []byte{0x0a, 0x0b, 0x0c}},
		{"0a 0b\n0c\t0d", []byte{0x0a, 0x0b, 0x0c, 0x0d}},
		{"", []byte{}},
	}
	for _, tt := range tests {
		data, err := parseHex(tt.input)
		if err != nil {
			t.Errorf("parseHex(%q) returned error: %v", tt.input, err)
			continue
		}
		if !bytes.Equal(data, tt.expected) {
			t.Errorf("parseHex(%q) = %x, expected %x", tt.input, data, tt.expected)
		}
	}

	_, err := parseHex("0g")
	assert.Error(t, err)
	_, err = parseHex("abc")
	assert.Error(t, err)
}

func TestRunDecodeHex_Frame(t *testing.T) {
	var buf bytes.Buffer
	err := runDecodeHex(config.Default(), udpFrameHex, "", formatYAML, &buf)
	require.NoError(t, err)

	var v frameView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, []string{"ethernet", "ipv4", "udp"}, v.Layers)
	assert.Equal(t, 50, v.Length)
	assert.Equal(t, 8, v.PayloadLen)
	require.NotNil(t, v.Ethernet)
	assert.Equal(t, "00:11:22:33:44:55", v.Ethernet.Dst)
	assert.Equal(t, "IPv4", v.Ethernet.EtherType)
	require.NotNil(t, v.IPv4)
	assert.Equal(t, "UDP", v.IPv4.Protocol)
	assert.Equal(t, "192.168.0.1", v.IPv4.Src)
	require.NotNil(t, v.UDP)
	assert.Equal(t, udpView{SrcPort: 53, DstPort: 54321, Length: 16}, *v.UDP)
	assert.Nil(t, v.TCP)
}

func TestRunDecodeHex_ARP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDecodeHex(config.Default(), arpFrameHex, "", formatJSON, &buf))

	var v frameView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, []string{"ethernet", "arp"}, v.Layers)
	require.NotNil(t, v.ARP)
	assert.Equal(t, "Request", v.ARP.Operation)
	assert.Equal(t, "192.168.1.2", v.ARP.DstIP)
	assert.Equal(t, "ff:ff:ff:ff:ff:ff", v.Ethernet.Dst)
}

func TestRunDecodeHex_Layer(t *testing.T) {
	var buf bytes.Buffer
	err := runDecodeHex(config.Default(), "0035 d431 0010 abcd ffff", "UDP", formatJSON, &buf)
	require.NoError(t, err)

	var v struct {
		Layer     string  `json:"layer"`
		Record    udpView `json:"record"`
		Remaining int     `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, "udp", v.Layer)
	assert.Equal(t, udpView{SrcPort: 53, DstPort: 54321, Length: 16, Checksum: 0xabcd}, v.Record)
	assert.Equal(t, 2, v.Remaining)
}

func TestRunDecodeHex_TCPOptions(t *testing.T) {
	var buf bytes.Buffer
	err := runDecodeHex(config.Default(), "0204053a 01 030304 0402 00", "tcp-options", formatYAML, &buf)
	require.NoError(t, err)

	var v struct {
		Layer  string   `yaml:"layer"`
		Record []string `yaml:"record"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, []string{
		"MaximumSegmentSize(1338)", "NoOperation", "WindowScale(4)", "SackPermitted", "EndOfOptions",
	}, v.Record)
}

func TestRunDecodeHex_Errors(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	err := runDecodeHex(cfg, "4500", "ipv4", formatYAML, &buf)
	assert.ErrorIs(t, err, core.ErrIncomplete)
	n, ok := core.NeededBytes(err)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	err = runDecodeHex(cfg, "0000000000000000 0000 0000 3000 0000 0000 0000", "tcp", formatYAML, &buf)
	assert.ErrorIs(t, err, core.ErrMalformed)

	err = runDecodeHex(cfg, "00", "sctp", formatYAML, &buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown layer")

	err = runDecodeHex(cfg, udpFrameHex, "", "xml", &buf)
	assert.Error(t, err)

	err = runDecodeHex(cfg, "zz", "", formatYAML, &buf)
	assert.Error(t, err)

	assert.Empty(t, buf.String())
}

func TestViewResult(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	data := mustHex(t, arpFrameHex)
	pkt, err := decoder.NewStandardDecoder(decoder.Config{}).Decode(data)
	require.NoError(t, err)

	v := viewResult("a.pcap", pipeline.Result{
		Frame:  pipeline.Frame{Index: 3, Data: data, Info: gopacket.CaptureInfo{Timestamp: ts}},
		Packet: pkt,
	})
	assert.Equal(t, "a.pcap", v.File)
	assert.Equal(t, 3, v.Frame)
	assert.Equal(t, "2024-05-01T06:00:00Z", v.Timestamp)
	assert.Equal(t, 42, v.Length)
	assert.Equal(t, []string{"ethernet", "arp"}, v.Layers)
	assert.Empty(t, v.Error)

	failed := viewResult("a.pcap", pipeline.Result{
		Frame: pipeline.Frame{Index: 4, Data: []byte{0x01}},
		Err:   &core.IncompleteError{Layer: "ethernet", Needed: 13},
	})
	assert.Contains(t, failed.Error, "ethernet")
	assert.Nil(t, failed.Ethernet)
	assert.Equal(t, 1, failed.Length)
}

func writeTestPcap(t *testing.T, dir, name string, frames ...[]byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))
	for i, data := range frames {
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Unix(1700000000+int64(i), 0),
			CaptureLength: len(data),
			Length:        len(data),
		}
		require.NoError(t, w.WritePacket(ci, data))
	}
	return path
}

func TestRunDecodeFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPcap(t, dir, "a.pcap", mustHex(t, arpFrameHex), mustHex(t, udpFrameHex))
	b := writeTestPcap(t, dir, "b.pcap", mustHex(t, udpFrameHex)[:20])

	cfg := config.Default()
	cfg.Pipeline.Workers = 1

	var buf bytes.Buffer
	require.NoError(t, runDecodeFiles(context.Background(), cfg, []string{a, b}, formatJSON, &buf))

	dec := json.NewDecoder(&buf)
	perFile := map[string]int{}
	failed := 0
	for {
		var v frameView
		if err := dec.Decode(&v); err == io.EOF {
			break
		} else {
			require.NoError(t, err)
		}
		perFile[filepath.Base(v.File)]++
		if v.Error != "" {
			failed++
			assert.True(t, strings.Contains(v.Error, "ipv4"), v.Error)
		}
	}
	assert.Equal(t, map[string]int{"a.pcap": 2, "b.pcap": 1}, perFile)
	assert.Equal(t, 1, failed)
}

func TestRunDecodeFiles_Errors(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	assert.Error(t, runDecodeFiles(context.Background(), cfg, nil, formatYAML, &buf))
	assert.Error(t, runDecodeFiles(context.Background(), cfg,
		[]string{filepath.Join(t.TempDir(), "missing.pcap")}, formatYAML, &buf))

	cfg.Pipeline.StopOnError = true
	path := writeTestPcap(t, t.TempDir(), "trunc.pcap", []byte{0xff, 0xff})
	err := runDecodeFiles(context.Background(), cfg, []string{path}, formatYAML, &buf)
	assert.ErrorIs(t, err, core.ErrIncomplete)
}
