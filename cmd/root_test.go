package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/log"
)

func TestReapplyFrameFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFrameFlags(fs)
	require.NoError(t, fs.Parse([]string{"--ttl", "99", "--dst", "10.9.9.9"}))

	fromFlags := config.DefaultFrameConfig()
	fromFlags.IPv4.TTL = 99
	fromFlags.IPv4.DstAddr = "10.9.9.9"

	profile := config.DefaultFrameConfig()
	profile.IPv4.TTL = 1
	profile.IPv4.Protocol = 17
	profile.IPv4.DstAddr = "10.0.0.1"

	reapplyFrameFlags(fs, &profile, fromFlags)

	assert.Equal(t, 99, profile.IPv4.TTL, "changed flag wins over profile")
	assert.Equal(t, "10.9.9.9", profile.IPv4.DstAddr)
	assert.Equal(t, 17, profile.IPv4.Protocol, "profile value kept when flag unchanged")
}

func TestAddFrameFlagsParsesHexEtherType(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFrameFlags(fs)
	require.NoError(t, fs.Parse([]string{"--ether-type", "0x86DD"}))

	v, err := fs.GetInt("ether-type")
	require.NoError(t, err)
	assert.Equal(t, 0x86DD, v)
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"build", "send", "inspect", "validate"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("profile"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
}

// openFDsFor lists descriptors of this process that point at path.
func openFDsFor(t *testing.T, path string) []string {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("no /proc/self/fd: %v", err)
	}
	var fds []string
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join("/proc/self/fd", e.Name()))
		if err == nil && target == path {
			fds = append(fds, e.Name())
		}
	}
	return fds
}

func TestWithConfigReleasesLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "pktcraft.log")
	cfgPath := filepath.Join(dir, "config.yml")
	content := fmt.Sprintf("pktcraft:\n  log:\n    level: info\n    format: json\n    outputs:\n      file:\n        enabled: true\n        path: %s\n", logPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	oldConfig, oldProfile := configFile, profileFile
	configFile, profileFile = cfgPath, ""
	t.Cleanup(func() {
		configFile, profileFile = oldConfig, oldProfile
		_ = log.Init(config.LogConfig{Level: "info", Format: "text"})
	})

	cmd := &cobra.Command{Use: "test"}
	addFrameFlags(cmd.Flags())

	boom := errors.New("boom")
	err := withConfig(cmd, func(cfg *config.GlobalConfig) error {
		log.GetLogger().Info("inside command")
		assert.NotEmpty(t, openFDsFor(t, logPath), "log file open while running")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, openFDsFor(t, logPath), "log file closed after the command")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"inside command"`)
}
