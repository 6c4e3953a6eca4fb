package lib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/units"
)

/* This file implements the 'user controlled' configuration of each module of the bulletin host */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath = "config.json" // the file path for the host configuration
)

// Config is the structure of the user configuration options for a bulletin host
type Config struct {
	MainConfig     // main options spanning over all modules
	BulletinConfig // protocol options
	StoreConfig    // persistence options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:     DefaultMainConfig(),
		BulletinConfig: DefaultBulletinConfig(),
		StoreConfig:    DefaultStoreConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel    string `json:"logLevel"`    // any level includes the levels above it: debug < info < warning < error
	DataDirPath string `json:"dataDirPath"` // the root directory for the config, logs, and database
}

// DefaultMainConfig() sets log level to 'info' and the data dir to its default location
func DefaultMainConfig() MainConfig {
	return MainConfig{
		LogLevel:    "info",
		DataDirPath: DefaultDataDirPath(),
	}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 {
	switch {
	case strings.Contains(strings.ToLower(m.LogLevel), "deb"):
		return DebugLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "inf"):
		return InfoLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "war"):
		return WarnLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "err"):
		return ErrorLevel
	default:
		return DebugLevel
	}
}

// BULLETIN CONFIG BELOW

type BulletinConfig struct {
	Owner         MemberID `json:"owner"`         // the privileged identity allowed to administer membership and the clock
	TimeoutBlocks uint64   `json:"timeoutBlocks"` // clock ticks an approval round may wait before being abandoned
	MaxViewSize   uint64   `json:"maxViewSize"`   // upper bound on the byte size of a published view
}

// DefaultBulletinConfig() sets the zero identity as the owner and developer recommended protocol bounds
func DefaultBulletinConfig() BulletinConfig {
	return BulletinConfig{
		Owner:         MemberID{},            // the 'default identity' administers the committee
		TimeoutBlocks: 10,                    // abandon an approval round after 10 clock ticks
		MaxViewSize:   uint64(1 * units.MiB), // views are opaque snapshots; cap them at 1MiB
	}
}

// STORE CONFIG BELOW

type StoreConfig struct {
	DBName   string `json:"dbName"`   // the name of the database folder under the data directory
	InMemory bool   `json:"inMemory"` // hold the database purely in memory (testing)
}

// DefaultStoreConfig() returns the developer recommended store configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DBName: "bulletin",
	}
}

// DefaultDataDirPath() is $USERHOME/.bulletin
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".bulletin")
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filepath string) error {
	// convert the config to indented 'pretty' json bytes
	jsonBytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	// write the config.json file to the data directory
	return os.WriteFile(filepath, jsonBytes, os.ModePerm)
}

// NewConfigFromFile() populates a Config object from a JSON file
func NewConfigFromFile(filepath string) (Config, error) {
	// read the file into bytes
	fileBytes, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, err
	}
	// define the default config to fill in any blanks in the file
	c := DefaultConfig()
	// populate the default config with the file bytes
	if err = json.Unmarshal(fileBytes, &c); err != nil {
		return Config{}, err
	}
	// exit
	return c, nil
}
