package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
	"firestige.xyz/pktcraft/internal/forge"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a frame profile",
	Long: `Validate a frame profile (JSON or YAML) by building the frame it describes.

Every field width is checked exactly as 'build' and 'send' would check it.
File format is auto-detected from extension (.json, .yaml, .yml).

Examples:
  pktcraft validate -f icmp.yaml
  pktcraft validate -f udp.json`,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(validateProfileFile)
		if err != nil {
			exitWithError(fmt.Sprintf("failed to read file %s", validateProfileFile), err)
		}
		if err := runValidate(data, validateProfileFile, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
			os.Exit(1)
		}
	},
}

var validateProfileFile string

func init() {
	validateCmd.Flags().StringVarP(&validateProfileFile, "file", "f", "",
		"frame profile to validate (required)")
	validateCmd.MarkFlagRequired("file")
}

func runValidate(data []byte, filename string, w io.Writer) error {
	profile, err := config.ParseFrameProfileAuto(data, filename)
	if err != nil {
		return err
	}
	fields, err := profile.Frame.ToFields()
	if err != nil {
		return err
	}
	frame, err := forge.Forge(fields)
	if err != nil {
		return err
	}

	name := profile.Name
	if name == "" {
		name = filename
	}
	fmt.Fprintf(w, "VALID: Profile %q: %d-byte frame, %s, checksum 0x%04X\n",
		name, frame.Len(), core.ProtocolName(fields.IPv4.Protocol), frame.Checksum)
	return nil
}
