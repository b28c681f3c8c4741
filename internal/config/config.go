// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string

	// DatabaseDSN holds the database connection string for the server.
	DatabaseDSN string

	// ServerURL is the base URL of the note server the client talks to.
	ServerURL string

	// StorageFile is the path of the client's local note store.
	StorageFile string

	// SyncInterval is how often the client runs a background reconcile pass.
	SyncInterval time.Duration

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.ServerURL, "s", "http://localhost:8080", "note server base URL")
	flag.StringVar(&options.StorageFile, "f", "notes.json", "local note storage file")
	flag.DurationVar(&options.SyncInterval, "i", 10*time.Second, "background sync interval")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}

	if serverURL := os.Getenv("SERVER_URL"); serverURL != "" {
		options.ServerURL = serverURL
	}

	if storageFile := os.Getenv("STORAGE_FILE"); storageFile != "" {
		options.StorageFile = storageFile
	}

	return options
}
