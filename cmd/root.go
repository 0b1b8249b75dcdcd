// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/pktparse/internal/config"
	"firestige.xyz/pktparse/internal/log"
)

var (
	// Global flags
	configFile string

	// globalCfg is loaded before any subcommand runs.
	globalCfg = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pktparse",
	Short: "pktparse - L2-L4 packet header decoder",
	Long: `pktparse decodes Ethernet frames into structured records: Ethernet and 802.1Q,
ARP, IPv4, IPv6, ICMP, TCP (with options) and UDP headers.

Frames are read from a hex string or from pcap/pcapng capture files and
printed as YAML or JSON. Truncated frames are reported as incomplete,
invalid ones as malformed, each naming the layer that failed.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := log.Init(cfg.Log); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		globalCfg = cfg
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return log.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults and PKTPARSE_* environment when empty)")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(tablesCmd)
}
