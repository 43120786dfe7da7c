// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/log"
)

var (
	// Global flags
	configFile  string
	profileFile string
	logLevel    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pktcraft",
	Short: "pktcraft - build and send raw Ethernet II + IPv4 frames",
	Long: `pktcraft builds an Ethernet II frame carrying a bare IPv4 header from
field values, patches the IPv4 total length and header checksum, and writes
the result to a raw network interface or a pcap file.

Field values come from built-in defaults, a config file, PKTCRAFT_* environment
variables, a frame profile and command-line flags, in increasing priority.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVarP(&profileFile, "profile", "p", "",
		"frame profile (YAML or JSON) applied over the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(validateCmd)
}

// addFrameFlags registers the frame field overrides shared by build and send.
func addFrameFlags(fs *pflag.FlagSet) {
	fs.String("dst-mac", "", "destination MAC address")
	fs.String("src-mac", "", "source MAC address")
	fs.Int("ether-type", 0, "EtherType (accepts 0x prefix)")
	fs.Int("id", 0, "IPv4 identification")
	fs.Int("ttl", 0, "IPv4 time to live")
	fs.Int("protocol", 0, "IPv4 protocol number")
	fs.String("src", "", "IPv4 source address")
	fs.String("dst", "", "IPv4 destination address")
}

// loadConfig resolves the layered configuration for cmd and initializes
// logging from it.
func loadConfig(cmd *cobra.Command) (*config.GlobalConfig, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	if profileFile != "" {
		// Changed flags must still win over the profile.
		base := cfg.Frame
		if _, err := config.ApplyProfile(cfg, profileFile); err != nil {
			return nil, err
		}
		reapplyFrameFlags(cmd.Flags(), &cfg.Frame, base)
	}

	if err := log.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, nil
}

// withConfig loads configuration for cmd, runs fn and then releases the log
// outputs loadConfig opened.
func withConfig(cmd *cobra.Command, fn func(cfg *config.GlobalConfig) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer log.Close()
	return fn(cfg)
}

// reapplyFrameFlags copies back every frame field that came from a changed flag.
func reapplyFrameFlags(fs *pflag.FlagSet, frame *config.FrameConfig, fromFlags config.FrameConfig) {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("dst-mac") {
		frame.Ethernet.DstMAC = fromFlags.Ethernet.DstMAC
	}
	if changed("src-mac") {
		frame.Ethernet.SrcMAC = fromFlags.Ethernet.SrcMAC
	}
	if changed("ether-type") {
		frame.Ethernet.EtherType = fromFlags.Ethernet.EtherType
	}
	if changed("id") {
		frame.IPv4.Identification = fromFlags.IPv4.Identification
	}
	if changed("ttl") {
		frame.IPv4.TTL = fromFlags.IPv4.TTL
	}
	if changed("protocol") {
		frame.IPv4.Protocol = fromFlags.IPv4.Protocol
	}
	if changed("src") {
		frame.IPv4.SrcAddr = fromFlags.IPv4.SrcAddr
	}
	if changed("dst") {
		frame.IPv4.DstAddr = fromFlags.IPv4.DstAddr
	}
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	log.Close()
	os.Exit(1)
}
