package file

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFrames = [][]byte{
	{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x08, 0x06,
		0x00, 0x01, 0x08, 0x00, 0x06, 0x04, 0x00, 0x01,
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0xc0, 0xa8, 0x01, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xc0, 0xa8, 0x01, 0x02,
	},
	{0x01, 0x02, 0x03},
}

func captureInfo(i int, data []byte) gopacket.CaptureInfo {
	return gopacket.CaptureInfo{
		Timestamp:     time.Unix(1700000000+int64(i), 0).UTC(),
		CaptureLength: len(data),
		Length:        len(data),
	}
}

func writePcap(t *testing.T, linkType layers.LinkType) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, linkType))
	for i, data := range testFrames {
		require.NoError(t, w.WritePacket(captureInfo(i, data), data))
	}
	return path
}

func writePcapNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pcapng")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := pcapgo.NewNgWriter(f, layers.LinkTypeEthernet)
	require.NoError(t, err)
	for i, data := range testFrames {
		require.NoError(t, w.WritePacket(captureInfo(i, data), data))
	}
	require.NoError(t, w.Flush())
	return path
}

func readAll(t *testing.T, s *Source) [][]byte {
	t.Helper()
	var frames [][]byte
	for {
		data, ci, err := s.ReadPacket()
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		assert.Equal(t, len(data), ci.CaptureLength)
		frames = append(frames, data)
	}
}

func TestSourcePcap(t *testing.T) {
	s, err := NewSource(writePcap(t, layers.LinkTypeEthernet))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.False(t, s.IsPcapNG())
	assert.Equal(t, layers.LinkTypeEthernet, s.LinkType())
	assert.Equal(t, testFrames, readAll(t, s))
}

func TestSourcePcapNG(t *testing.T) {
	s, err := NewSource(writePcapNG(t))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.True(t, s.IsPcapNG())
	assert.Equal(t, testFrames, readAll(t, s))
}

func TestSourceRejectsNonEthernet(t *testing.T) {
	s, err := NewSource(writePcap(t, layers.LinkTypeRaw))
	require.NoError(t, err)
	assert.Error(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop())
}

func TestSourceErrors(t *testing.T) {
	_, err := NewSource("")
	assert.Error(t, err)

	s, err := NewSource(filepath.Join(t.TempDir(), "missing.pcap"))
	require.NoError(t, err)
	assert.Error(t, s.Start(context.Background()))

	_, _, err = s.ReadPacket()
	assert.ErrorIs(t, err, ErrNotStarted)

	empty := filepath.Join(t.TempDir(), "empty.pcap")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	s, err = NewSource(empty)
	require.NoError(t, err)
	assert.Error(t, s.Start(context.Background()))
}
