// Package pipeline implements the frame decoding pipeline: a reader
// goroutine pulls frames from a source and a processing loop decodes them
// and hands each result to a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/sirupsen/logrus"

	"firestige.xyz/pktparse/internal/log"
	"firestige.xyz/pktparse/internal/metrics"
	"firestige.xyz/pktparse/pkg/core"
	"firestige.xyz/pktparse/pkg/decoder"
)

// Source yields raw frames until io.EOF. file.Source implements it.
type Source interface {
	ReadPacket() ([]byte, gopacket.CaptureInfo, error)
}

// Frame is one raw frame read from a source. Index counts from 1.
type Frame struct {
	Index int
	Data  []byte
	Info  gopacket.CaptureInfo
}

// Result is the outcome of decoding one frame. Exactly one of Packet and
// Err is set.
type Result struct {
	Frame  Frame
	Packet *decoder.Packet
	Err    error
}

// Sink receives every result in frame order. An error stops the pipeline.
type Sink func(Result) error

// Config contains pipeline configuration.
type Config struct {
	Name        string // source name used in logs and errors, e.g. the file path
	Source      Source
	Decoder     decoder.Decoder
	Sink        Sink
	StopOnError bool // end the run on the first frame that fails to decode
	BufferSize  int  // frame channel buffer size
}

// Pipeline decodes the frames of one source.
type Pipeline struct {
	name        string
	source      Source
	decoder     decoder.Decoder
	sink        Sink
	stopOnError bool
	bufferSize  int
	metrics     *Metrics
}

// New creates a new pipeline.
func New(cfg Config) *Pipeline {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256 // Default buffer size
	}
	return &Pipeline{
		name:        cfg.Name,
		source:      cfg.Source,
		decoder:     cfg.Decoder,
		sink:        cfg.Sink,
		stopOnError: cfg.StopOnError,
		bufferSize:  cfg.BufferSize,
		metrics:     NewMetrics(cfg.Name),
	}
}

// Run reads and decodes frames until the source is exhausted, ctx is done,
// or an error stops the pipeline.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan Frame, p.bufferSize)

	var (
		wg      sync.WaitGroup
		readErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		readErr = p.captureLoop(ctx, frames)
	}()

	err := p.processLoop(ctx, frames)
	cancel()
	wg.Wait()

	if err != nil {
		return err
	}
	return readErr
}

// captureLoop reads frames from the source into the channel and closes it
// when done.
func (p *Pipeline) captureLoop(ctx context.Context, frames chan<- Frame) error {
	defer close(frames)

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, ci, err := p.source.ReadPacket()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}

		select {
		case frames <- Frame{Index: n, Data: data, Info: ci}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// processLoop is the main processing loop.
func (p *Pipeline) processLoop(ctx context.Context, frames <-chan Frame) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case f, ok := <-frames:
			if !ok {
				// Channel closed, source exhausted
				return nil
			}

			p.metrics.Received.Add(1)
			if err := p.processFrame(f); err != nil {
				return err
			}
		}
	}
}

// processFrame decodes one frame and passes the result to the sink.
func (p *Pipeline) processFrame(f Frame) error {
	start := time.Now()
	pkt, err := p.decoder.Decode(f.Data)
	p.metrics.add(metrics.ObserveFrame(pkt, err, time.Since(start)))

	if err != nil {
		layer, _ := core.LayerOf(err)
		log.WithLayer(layer).WithFields(logrus.Fields{
			"source": p.name,
			"frame":  f.Index,
		}).WithError(err).Warn("frame not decoded")
		if p.stopOnError {
			return fmt.Errorf("%s frame %d: %w", p.name, f.Index, err)
		}
	}

	if err := p.sink(Result{Frame: f, Packet: pkt, Err: err}); err != nil {
		return fmt.Errorf("sink failed: %w", err)
	}
	p.metrics.Emitted.Add(1)
	return nil
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Received:   p.metrics.Received.Load(),
		Decoded:    p.metrics.Decoded.Load(),
		Incomplete: p.metrics.Incomplete.Load(),
		Malformed:  p.metrics.Malformed.Load(),
		Errors:     p.metrics.Errors.Load(),
		Emitted:    p.metrics.Emitted.Load(),
	}
}

// Stats represents pipeline statistics.
type Stats struct {
	Received   uint64
	Decoded    uint64
	Incomplete uint64
	Malformed  uint64
	Errors     uint64
	Emitted    uint64
}
