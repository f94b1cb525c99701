package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Journal Configuration

[journal]
# Account balance the equity curve starts from
starting_balance = 5000.0
# Layout trade dates are displayed with (Go reference time)
date_format = "1/2/2006"
# Path to the SQLite database file
# db_path = "~/.config/trade-journal/journal.db"

[ui]
# Enable colored output
color_enabled = true

[import]
# Timeout for URL imports, in seconds
timeout_seconds = 15

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to the terminal
console = true
# Log to a rotating file
file = true
`

// writeTemplate creates the config directory and a commented config.toml
// the first time the application runs.
func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
