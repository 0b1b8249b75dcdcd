package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/pktparse/pkg/core"
)

var tablesCmd = &cobra.Command{
	Use:       "tables [ethertype|ipproto|icmp]",
	Short:     "Print the code tables used to name protocol fields",
	Long:      `Print the EtherType, IP protocol and ICMP (type, code) tables. Without an argument all three are printed.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"ethertype", "ipproto", "icmp"},
	RunE: func(cmd *cobra.Command, args []string) error {
		which := ""
		if len(args) == 1 {
			which = args[0]
		}
		return runTables(which, tablesOutput, cmd.OutOrStdout())
	},
}

var tablesOutput string

func init() {
	tablesCmd.Flags().StringVarP(&tablesOutput, "output", "o", formatYAML, "output format: yaml|json")
}

type tableEntry struct {
	Value string `json:"value" yaml:"value"`
	Name  string `json:"name" yaml:"name"`
}

type tablesView struct {
	EtherTypes  []tableEntry `json:"ethertypes,omitempty" yaml:"ethertypes,omitempty"`
	IPProtocols []tableEntry `json:"ip_protocols,omitempty" yaml:"ip_protocols,omitempty"`
	ICMPCodes   []tableEntry `json:"icmp_codes,omitempty" yaml:"icmp_codes,omitempty"`
}

func runTables(which, format string, w io.Writer) error {
	enc, closeEnc, err := newEncoder(format, w)
	if err != nil {
		return err
	}

	var v tablesView
	if which == "" || which == "ethertype" {
		for _, et := range core.EtherTypes() {
			v.EtherTypes = append(v.EtherTypes, tableEntry{fmt.Sprintf("0x%04x", uint16(et)), et.String()})
		}
	}
	if which == "" || which == "ipproto" {
		for _, p := range core.IPProtocols() {
			v.IPProtocols = append(v.IPProtocols, tableEntry{fmt.Sprintf("%d", uint8(p)), p.String()})
		}
	}
	if which == "" || which == "icmp" {
		for _, c := range core.ICMPCodes() {
			v.ICMPCodes = append(v.ICMPCodes, tableEntry{fmt.Sprintf("%d/%d", c.Type(), c.Code()), c.String()})
		}
	}

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return closeEnc()
}
