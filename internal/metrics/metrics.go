// Package metrics implements Prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"firestige.xyz/pktparse/pkg/core"
	"firestige.xyz/pktparse/pkg/decoder"
)

// Frame results used as the "result" label of FramesTotal.
const (
	ResultDecoded    = "decoded"
	ResultIncomplete = "incomplete"
	ResultMalformed  = "malformed"
	ResultError      = "error"
)

var (
	// FramesTotal counts frames handed to the decoder by outcome
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pktparse_frames_total",
			Help: "Total number of frames decoded, by result",
		},
		[]string{"result"},
	)

	// DecodedTotal counts headers decoded successfully per layer
	DecodedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pktparse_decoded_total",
			Help: "Total number of headers decoded per layer",
		},
		[]string{"layer"},
	)

	// IncompleteTotal counts frames that ended inside a header
	IncompleteTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pktparse_incomplete_total",
			Help: "Total number of frames truncated inside a header, by layer",
		},
		[]string{"layer"},
	)

	// MalformedTotal counts frames rejected for an invalid field
	MalformedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pktparse_malformed_total",
			Help: "Total number of frames with an invalid field, by layer",
		},
		[]string{"layer"},
	)

	// DecodeLatencySeconds measures a full chained decode
	DecodeLatencySeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pktparse_decode_latency_seconds",
			Help:    "Latency of one chained frame decode in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0000001, 2, 16), // 100ns to ~3ms
		},
	)
)

// ObserveFrame records the outcome of one StandardDecoder.Decode call and
// returns the result label it was counted under.
func ObserveFrame(pkt *decoder.Packet, err error, elapsed time.Duration) string {
	DecodeLatencySeconds.Observe(elapsed.Seconds())

	result := classify(err)
	FramesTotal.WithLabelValues(result).Inc()

	switch result {
	case ResultDecoded:
		for _, layer := range pkt.Layers {
			DecodedTotal.WithLabelValues(layer).Inc()
		}
	case ResultIncomplete:
		layer, _ := core.LayerOf(err)
		IncompleteTotal.WithLabelValues(layer).Inc()
	case ResultMalformed:
		layer, _ := core.LayerOf(err)
		MalformedTotal.WithLabelValues(layer).Inc()
	}
	return result
}

func classify(err error) string {
	switch {
	case err == nil:
		return ResultDecoded
	case errors.Is(err, core.ErrIncomplete):
		return ResultIncomplete
	case errors.Is(err, core.ErrMalformed):
		return ResultMalformed
	default:
		return ResultError
	}
}
