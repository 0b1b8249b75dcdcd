package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"firestige.xyz/pktparse/internal/config"
	"firestige.xyz/pktparse/internal/log"
	"firestige.xyz/pktparse/internal/metrics"
	"firestige.xyz/pktparse/internal/pipeline"
	"firestige.xyz/pktparse/internal/source/file"
	"firestige.xyz/pktparse/pkg/decoder"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode frames from a hex string or capture files",
	Long: `Decode one frame given as hex, or every frame of one or more pcap/pcapng files.

Without --layer the whole frame is decoded from the Ethernet header up, as
configured in the decoder section. With --layer only that header is decoded
from the start of the input.

Examples:
  pktparse decode --hex "ffffffffffff 001122334455 0806 ..."
  pktparse decode --hex 4500003c... --layer ipv4 --output json
  pktparse decode -f a.pcap -f b.pcapng`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if decodeHex != "" {
			return runDecodeHex(globalCfg, decodeHex, decodeLayer, decodeOutput, cmd.OutOrStdout())
		}
		if decodeLayer != "" {
			return fmt.Errorf("--layer requires --hex")
		}
		return runDecodeFiles(cmd.Context(), globalCfg, decodeFiles, decodeOutput, cmd.OutOrStdout())
	},
}

var (
	decodeHex    string
	decodeFiles  []string
	decodeLayer  string
	decodeOutput string
)

func init() {
	decodeCmd.Flags().StringVar(&decodeHex, "hex", "",
		"frame bytes as hex; spaces, colons and a 0x prefix are ignored")
	decodeCmd.Flags().StringSliceVarP(&decodeFiles, "file", "f", nil,
		"pcap or pcapng file to decode (repeatable)")
	decodeCmd.Flags().StringVarP(&decodeLayer, "layer", "l", "",
		"decode a single header: "+strings.Join(layerNames(), "|"))
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", formatYAML,
		"output format: yaml|json")
	decodeCmd.MarkFlagsMutuallyExclusive("hex", "file")
	decodeCmd.MarkFlagsOneRequired("hex", "file")
}

type layerFunc func(data []byte) (record any, rest []byte, err error)

// layerDecoders maps --layer values to the single-header decoders.
var layerDecoders = map[string]layerFunc{
	"ethernet": func(b []byte) (any, []byte, error) {
		h, rest, err := decoder.DecodeEthernet(b)
		return viewEthernet(h), rest, err
	},
	"vlan": func(b []byte) (any, []byte, error) {
		h, rest, err := decoder.DecodeVLANEthernet(b)
		return viewVLANEthernet(h), rest, err
	},
	"arp": func(b []byte) (any, []byte, error) {
		h, rest, err := decoder.DecodeARP(b)
		return viewARP(h), rest, err
	},
	"ipv4": func(b []byte) (any, []byte, error) {
		h, rest, err := decoder.DecodeIPv4(b)
		return viewIPv4(h), rest, err
	},
	"ipv6": func(b []byte) (any, []byte, error) {
		h, rest, err := decoder.DecodeIPv6(b)
		return viewIPv6(h), rest, err
	},
	"icmp": func(b []byte) (any, []byte, error) {
		h, rest, err := decoder.DecodeICMP(b)
		return viewICMP(h), rest, err
	},
	"tcp": func(b []byte) (any, []byte, error) {
		h, rest, err := decoder.DecodeTCP(b)
		return viewTCP(h), rest, err
	},
	"tcp-options": func(b []byte) (any, []byte, error) {
		opts, err := decoder.DecodeTCPOptions(b)
		return viewTCPOptions(opts), nil, err
	},
	"udp": func(b []byte) (any, []byte, error) {
		h, rest, err := decoder.DecodeUDP(b)
		return viewUDP(h), rest, err
	},
}

func layerNames() []string {
	names := make([]string, 0, len(layerDecoders))
	for name := range layerDecoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseHex accepts "0x"-prefixed input with spaces, colons or newlines
// between bytes.
func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "", "\r", "").Replace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

func runDecodeHex(cfg *config.GlobalConfig, input, layer, format string, w io.Writer) error {
	data, err := parseHex(input)
	if err != nil {
		return err
	}

	enc, closeEnc, err := newEncoder(format, w)
	if err != nil {
		return err
	}

	var out any
	if layer == "" {
		pkt, err := decoder.NewStandardDecoder(cfg.Decoder.Options()).Decode(data)
		if err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
		v := &frameView{Length: len(data)}
		v.fillPacket(pkt)
		out = v
	} else {
		fn, ok := layerDecoders[strings.ToLower(layer)]
		if !ok {
			return fmt.Errorf("unknown layer %q (must be one of %s)", layer, strings.Join(layerNames(), ", "))
		}
		record, rest, err := fn(data)
		if err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
		out = layerView{Layer: strings.ToLower(layer), Record: record, Remaining: len(rest)}
	}

	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return closeEnc()
}

func runDecodeFiles(ctx context.Context, cfg *config.GlobalConfig, paths []string, format string, w io.Writer) error {
	if len(paths) == 0 {
		return fmt.Errorf("at least one capture file is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	enc, closeEnc, err := newEncoder(format, w)
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer srv.Stop(context.Background())
	}

	var mu sync.Mutex
	dec := decoder.NewStandardDecoder(cfg.Decoder.Options())

	workers := cfg.Pipeline.Workers
	if workers == 0 {
		workers = len(paths)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range paths {
		g.Go(func() error {
			src, err := file.NewSource(path)
			if err != nil {
				return err
			}
			if err := src.Start(gctx); err != nil {
				return err
			}
			defer src.Stop()

			p := pipeline.New(pipeline.Config{
				Name:        path,
				Source:      src,
				Decoder:     dec,
				StopOnError: cfg.Pipeline.StopOnError,
				Sink: func(res pipeline.Result) error {
					v := viewResult(path, res)
					mu.Lock()
					defer mu.Unlock()
					return enc.Encode(v)
				},
			})
			err = p.Run(gctx)

			stats := p.Stats()
			log.GetLogger().WithFields(logrus.Fields{
				"file":       path,
				"frames":     stats.Received,
				"decoded":    stats.Decoded,
				"incomplete": stats.Incomplete,
				"malformed":  stats.Malformed,
			}).Info("capture file decoded")
			return err
		})
	}

	if err := g.Wait(); err != nil {
		_ = closeEnc()
		return err
	}
	return closeEnc()
}

// viewResult renders one pipeline result; failed frames carry the error.
func viewResult(name string, res pipeline.Result) *frameView {
	v := &frameView{
		File:      name,
		Frame:     res.Frame.Index,
		Timestamp: res.Frame.Info.Timestamp.UTC().Format(time.RFC3339Nano),
		Length:    len(res.Frame.Data),
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
		return v
	}
	v.fillPacket(res.Packet)
	return v
}
