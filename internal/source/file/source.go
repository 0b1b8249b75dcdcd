// Package file reads Ethernet frames from pcap and pcapng capture files.
package file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// pcapng files start with a Section Header Block.
var ngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// ErrNotStarted is returned by ReadPacket before Start.
var ErrNotStarted = errors.New("file source not started")

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Source reads frames from one capture file.
type Source struct {
	path   string
	file   *os.File
	reader packetReader
	ng     bool
}

// NewSource returns a Source for path. The file is opened by Start.
func NewSource(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required")
	}
	return &Source{path: path}, nil
}

// Start opens the file and detects its format. Only Ethernet captures are
// accepted.
func (fs *Source) Start(_ context.Context) error {
	f, err := os.Open(fs.path)
	if err != nil {
		return fmt.Errorf("failed to open capture file %s: %w", fs.path, err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(len(ngMagic))
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to read capture header %s: %w", fs.path, err)
	}

	var r packetReader
	if bytes.Equal(magic, ngMagic) {
		r, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		fs.ng = true
	} else {
		r, err = pcapgo.NewReader(br)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to parse capture header %s: %w", fs.path, err)
	}

	if lt := r.LinkType(); lt != layers.LinkTypeEthernet {
		f.Close()
		return fmt.Errorf("unsupported link type %s in %s (only Ethernet)", lt, fs.path)
	}

	fs.file = f
	fs.reader = r
	return nil
}

// ReadPacket returns the next frame. The slice is owned by the caller.
// io.EOF marks the end of the file.
func (fs *Source) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	if fs.reader == nil {
		return nil, gopacket.CaptureInfo{}, ErrNotStarted
	}

	data, ci, err := fs.reader.ReadPacketData()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, gopacket.CaptureInfo{}, io.EOF
		}
		return nil, gopacket.CaptureInfo{}, fmt.Errorf("failed to read packet: %w", err)
	}

	return data, ci, nil
}

// Path returns the capture file path.
func (fs *Source) Path() string { return fs.path }

// IsPcapNG reports whether the open file is pcapng.
func (fs *Source) IsPcapNG() bool { return fs.ng }

func (fs *Source) LinkType() layers.LinkType {
	if fs.reader == nil {
		return layers.LinkTypeEthernet // default
	}
	return fs.reader.LinkType()
}

func (fs *Source) Stop() error {
	if fs.file == nil {
		return nil
	}
	err := fs.file.Close()
	fs.file = nil
	fs.reader = nil
	return err
}
