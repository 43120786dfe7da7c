package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/pktcraft/internal/core/decoder"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <hex|->",
	Short: "Decode a hex frame and verify its IPv4 checksum",
	Long: `Decode an Ethernet + IPv4 frame given as hex, print every header field,
check the header checksum and list the layers gopacket finds.

Whitespace and ':' separators in the hex are ignored. Use '-' to read stdin.

Examples:
  pktcraft inspect "000000000000 000000000000 0800 4500001400004000 0A0172E7 7F000001 7F000001"
  pktcraft build | tail -1 | pktcraft inspect -`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := args[0]
		if input == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitWithError("failed to read stdin", err)
			}
			input = string(data)
		}
		if err := runInspect(input, os.Stdout); err != nil {
			exitWithError("inspect failed", err)
		}
	},
}

func runInspect(input string, w io.Writer) error {
	data, err := parseHex(input)
	if err != nil {
		return err
	}

	df, err := decoder.Decode(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Frame [%d bytes]\n%s\n\n", len(data), decoder.HexDump(data))
	fmt.Fprint(w, decoder.Describe(df))
	fmt.Fprintf(w, "layers: %s\n", strings.Join(decoder.LayerSummary(data), ", "))
	return nil
}

func parseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")

	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}
