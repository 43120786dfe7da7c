package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
	"firestige.xyz/pktcraft/internal/forge"
	"firestige.xyz/pktcraft/internal/transmit"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Build a frame and transmit it once",
	Long: `Build the frame and hand it to the configured transmitter exactly once.

Backends: afpacket (default), socket, pcap, pcapfile. All but pcapfile need
CAP_NET_RAW or root.

Examples:
  sudo pktcraft send --interface eth0
  pktcraft send --type pcapfile --pcap-file out.pcap`,
	Run: func(cmd *cobra.Command, args []string) {
		err := withConfig(cmd, func(cfg *config.GlobalConfig) error {
			return runSend(cfg, os.Stdout)
		})
		if err != nil {
			exitWithError("send failed", err)
		}
	},
}

func init() {
	addFrameFlags(sendCmd.Flags())
	sendCmd.Flags().String("type", "", "transmitter backend: afpacket, socket, pcap, pcapfile")
	sendCmd.Flags().StringP("interface", "i", "", "network interface to send on")
	sendCmd.Flags().String("pcap-file", "", "output file for the pcapfile backend")
}

func runSend(cfg *config.GlobalConfig, w io.Writer) error {
	fields, err := cfg.Frame.ToFields()
	if err != nil {
		return err
	}
	frame, err := forge.Forge(fields)
	if err != nil {
		return err
	}

	return transmit.With(cfg.Transmit, func(tx transmit.Transmitter) error {
		return sendFrame(tx, frame, describeTarget(cfg.Transmit), w)
	})
}

func sendFrame(tx transmit.Transmitter, frame *core.Frame, target string, w io.Writer) error {
	n, err := forge.Send(tx, frame)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Sent %d bytes to %s (checksum 0x%04X)\n", n, target, frame.Checksum)
	return nil
}

func describeTarget(cfg config.TransmitConfig) string {
	if cfg.Type == "pcapfile" {
		return fmt.Sprintf("%s [pcapfile]", cfg.PcapFile)
	}
	return fmt.Sprintf("%s [%s]", cfg.Interface, cfg.Type)
}
