package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"firestige.xyz/pktcraft/internal/core"
)

// FrameProfile is a standalone, shareable frame definition:
//
//	name: icmp-loopback
//	frame:
//	  ipv4:
//	    ttl: 64
//
// Keys that are absent keep the value of the base the profile is applied to.
type FrameProfile struct {
	Name        string      `mapstructure:"name"`
	Description string      `mapstructure:"description"`
	Frame       FrameConfig `mapstructure:"frame"`
}

// ParseFrameProfile parses a YAML frame profile over DefaultFrameConfig.
func ParseFrameProfile(data []byte) (*FrameProfile, error) {
	return decodeProfile(data, ".yaml", DefaultFrameConfig())
}

// ParseFrameProfileAuto picks JSON or YAML from the file extension
// (.json, .yaml, .yml) and parses over DefaultFrameConfig.
func ParseFrameProfileAuto(data []byte, filename string) (*FrameProfile, error) {
	return decodeProfile(data, filepath.Ext(filename), DefaultFrameConfig())
}

// ApplyProfile reads the profile at path and overlays its frame section on cfg.
func ApplyProfile(cfg *GlobalConfig, path string) (*FrameProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	p, err := decodeProfile(data, filepath.Ext(path), cfg.Frame)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	cfg.Frame = p.Frame
	return p, nil
}

func decodeProfile(data []byte, ext string, base FrameConfig) (*FrameProfile, error) {
	raw := make(map[string]any)
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON profile: %v", core.ErrConfigInvalid, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML profile: %v", core.ErrConfigInvalid, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported profile format %q (must be .json, .yaml or .yml)", core.ErrConfigInvalid, ext)
	}

	if _, ok := raw["frame"]; !ok {
		return nil, fmt.Errorf("%w: profile has no frame section", core.ErrConfigInvalid)
	}

	p := &FrameProfile{Frame: base}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true, // "0x0800" and "64" decode into ints
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfigInvalid, err)
	}
	return p, nil
}
