// cmd/opsisd/cmd/root.go
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tamzrod/opsis-console/internal/config"
	"github.com/tamzrod/opsis-console/internal/logger"
	"github.com/tamzrod/opsis-console/internal/processor"
)

var (
	// Global flags
	cfgPath string
	logPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "opsisd",
	Short: "Opsis board console daemon",
	Long: `Runtime console for the Opsis HDMI capture board.

The daemon serves the command interpreter on a serial line or the local
terminal and over Telnet, and drives the board's CSRs through a register bus
(in-memory simulator or a Modbus bridge).

Examples:
  opsisd serve -c opsis.yaml           # Run the console
  opsisd modes                         # List video modes
  opsisd edid generate --mode 5 -o x   # Write the EDID served for 720p60
  opsisd edid validate monitor.bin     # Check and decode an EDID block`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "opsis.yaml", "board configuration file")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debug logging on stderr")
}

// loadConfig is Load, Validate, Normalize.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

// newLogger builds the process logger from the global flags.
func newLogger() (*slog.Logger, func() error, error) {
	var file io.Writer
	closeFn := func() error { return nil }
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		closeFn = f.Close
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(logger.NewHandler(file, level, debug)), closeFn, nil
}

// identity maps the edid section onto the generated block's fields.
func identity(c config.EDIDConfig) processor.Identity {
	var pc [2]byte
	copy(pc[:], c.ProductCode)
	return processor.Identity{
		Manufacturer: c.Manufacturer,
		ProductCode:  pc,
		Year:         c.Year,
		Name:         c.Name,
	}
}
