package fatrecov

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aligator/fatrecov/checkpoint"
	"github.com/go-ini/ini"
	"github.com/spf13/afero"
)

// Config is the optional ini configuration file. Every getter falls back to the
// defaults if a key is missing.
//
//	[hash]
//	algorithm = sha1
//
//	[output]
//	dir = recovered
//	tmpdir = /var/tmp
//
//	[scan]
//	max_file_size = 64M
//
//	[log]
//	level = 1
type Config struct {
	ini *ini.File
}

// HashConfig selects the digest of the report lines.
type HashConfig struct {
	Algorithm string
}

// OutputConfig controls where recovered files go.
type OutputConfig struct {
	Dir     string
	TempDir string
}

// ScanConfig tunes the scan heuristics.
type ScanConfig struct {
	MaxFileSize string
}

// LogConfig holds the default verbosity (0=errors, 1=info, 2=debug, 3=trace).
type LogConfig struct {
	Level int
}

// EmptyConfig returns a configuration consisting only of defaults.
func EmptyConfig() *Config {
	return &Config{ini: ini.Empty()}
}

// LoadConfig reads the configuration file at path from fs.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, checkpoint.Wrap(err, fmt.Errorf("failed to read config file %s", path))
	}

	file, err := ini.Load(data)
	if err != nil {
		return nil, checkpoint.Wrap(err, fmt.Errorf("failed to parse config file %s", path))
	}

	return &Config{ini: file}, nil
}

func (c *Config) value(section, key string) (string, bool) {
	if !c.ini.HasSection(section) {
		return "", false
	}
	s := c.ini.Section(section)
	if !s.HasKey(key) {
		return "", false
	}
	return s.Key(key).String(), true
}

// GetHashConfig returns the hash configuration.
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Algorithm: DefaultHashAlgorithm,
	}
	if algorithm, ok := c.value("hash", "algorithm"); ok && algorithm != "" {
		hashConfig.Algorithm = algorithm
	}
	return hashConfig
}

// GetOutputConfig returns the output configuration.
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{}
	if dir, ok := c.value("output", "dir"); ok {
		outputConfig.Dir = dir
	}
	if tmpDir, ok := c.value("output", "tmpdir"); ok {
		outputConfig.TempDir = tmpDir
	}
	return outputConfig
}

// GetScanConfig returns the scan configuration.
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{
		MaxFileSize: "64M",
	}
	if size, ok := c.value("scan", "max_file_size"); ok && size != "" {
		scanConfig.MaxFileSize = size
	}
	return scanConfig
}

// GetLogConfig returns the log configuration. Invalid levels are ignored.
func (c *Config) GetLogConfig() *LogConfig {
	logConfig := &LogConfig{}
	if !c.ini.HasSection("log") {
		return logConfig
	}
	if level, err := c.ini.Section("log").Key("level").Int(); err == nil {
		logConfig.Level = level
	}
	return logConfig
}

// ParseHumanSize parses sizes like "512", "64K", "64M" or "1.5G".
func ParseHumanSize(sizeStr string) (int64, error) {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	split := strings.IndexFunc(sizeStr, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	numPart, suffix := sizeStr, ""
	if split >= 0 {
		numPart, suffix = sizeStr[:split], sizeStr[split:]
	}
	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier float64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1 << 10
	case "M", "MB":
		multiplier = 1 << 20
	case "G", "GB":
		multiplier = 1 << 30
	default:
		return 0, fmt.Errorf("unknown size suffix %q in %s", suffix, sizeStr)
	}

	return int64(num * multiplier), nil
}

// ParseMaxFileSize parses a plausibility cap, which has to fit the 32 bit size field.
func ParseMaxFileSize(sizeStr string) (uint32, error) {
	size, err := ParseHumanSize(sizeStr)
	if err != nil {
		return 0, err
	}
	if size <= 0 || size > 0xFFFFFFFF {
		return 0, fmt.Errorf("max file size %s out of range (1B-4G)", sizeStr)
	}
	return uint32(size), nil
}
