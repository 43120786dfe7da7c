package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
	"firestige.xyz/pktcraft/internal/core/checksum"
	"firestige.xyz/pktcraft/internal/core/decoder"
	"firestige.xyz/pktcraft/internal/core/encoder"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a frame and print every patching step",
	Long: `Build the Ethernet and IPv4 headers, then print both headers, the
totalLength patch, the checksum computation and the final IPv4 header.

Nothing is sent.

Examples:
  pktcraft build
  pktcraft build --ttl 64 --protocol 17 --src 10.0.0.1 --dst 10.0.0.2
  pktcraft build -p profiles/icmp.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		err := withConfig(cmd, func(cfg *config.GlobalConfig) error {
			fields, err := cfg.Frame.ToFields()
			if err != nil {
				return err
			}
			return runBuild(fields, os.Stdout)
		})
		if err != nil {
			exitWithError("build failed", err)
		}
	},
}

func init() {
	addFrameFlags(buildCmd.Flags())
}

// runBuild walks the same encode, length patch, checksum patch sequence as
// forge.Forge, printing the header between steps.
func runBuild(fields core.FrameFields, w io.Writer) error {
	eth, ip, err := encoder.Encode(fields)
	if err != nil {
		return err
	}
	rawIP := append([]byte(nil), ip...)

	total, err := checksum.PatchTotalLength(ip, 0)
	if err != nil {
		return err
	}
	// Sum as PatchChecksum sees it: length patched, checksum still zero.
	sum := checksum.Sum(ip)
	ck, err := checksum.PatchChecksum(ip)
	if err != nil {
		return err
	}
	frame := &core.Frame{Ethernet: eth, IPv4: ip, TotalLength: total, Checksum: ck}

	fmt.Fprintf(w, "PACKET l2 [%04X]:\n%s\n\n", len(eth), decoder.HexDump(eth))
	fmt.Fprintf(w, "PACKET l3 [%04X]:\n%s\n\n", len(rawIP), decoder.HexDump(rawIP))

	fmt.Fprintln(w, "Patch Total Length")
	fmt.Fprintf(w, "%s\n%s\n\n", decoder.HexDump(rawIP[2:4]), decoder.HexDump(frame.IPv4[2:4]))

	fmt.Fprintln(w, "IPv4 Header checksum")
	fmt.Fprintf(w, "checksum sum:      0x%05X\n", sum)
	fmt.Fprintf(w, "checksum folded:   0x%04X\n", checksum.Fold(sum))
	fmt.Fprintf(w, "one's complement:  0x%04X\n\n", frame.Checksum)

	fmt.Fprintln(w, "Patch checksum")
	fmt.Fprintf(w, "%s\n%s\n\n", decoder.HexDump(rawIP[10:12]), decoder.HexDump(frame.IPv4[10:12]))

	fmt.Fprintf(w, "IPv4 Header\n%s\n\n", decoder.HexDump(frame.IPv4))
	fmt.Fprintf(w, "Frame [%d bytes]\n%s\n", frame.Len(), decoder.HexDump(frame.Bytes()))
	return nil
}
