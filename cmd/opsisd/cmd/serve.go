// cmd/opsisd/cmd/serve.go
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/opsis-console/internal/board"
	"github.com/tamzrod/opsis-console/internal/ci"
	"github.com/tamzrod/opsis-console/internal/config"
	"github.com/tamzrod/opsis-console/internal/processor"
	"github.com/tamzrod/opsis-console/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board console",
	Long: `Open the register bus, start the stored video mode and serve the
command interpreter until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Board + pipeline
	// --------------------

	presence := board.PresenceFrom(cfg.Board.Present)
	bus, closeBus, err := board.OpenBus(cfg.Bus, presence)
	if err != nil {
		return fmt.Errorf("register bus: %w", err)
	}
	defer closeBus()
	log.Info("register bus open", "kind", cfg.Bus.Kind, "endpoint", cfg.Bus.Endpoint)

	b := board.New(bus, presence)

	store, err := config.OpenStore(cfg.State.Path)
	if err != nil {
		return err
	}

	proc := processor.New(b, identity(cfg.EDID), log)

	mode := bootMode(store, log)
	if err := proc.Start(mode); err != nil {
		log.Error("boot video mode failed", "mode", mode, "err", err)
	}

	// --------------------
	// Transports
	// --------------------

	sw := &transport.Switch{}
	if cfg.Console.Serial != "" {
		s, err := transport.OpenSerial(cfg.Console.Serial, cfg.Console.BaudRate, log)
		if err != nil {
			return err
		}
		defer s.Close()
		sw.Serial = s
	}
	if cfg.Console.TelnetListen != "" {
		tn, err := transport.ListenTelnet(cfg.Console.TelnetListen, log)
		if err != nil {
			return err
		}
		defer tn.Close()
		go tn.Serve(ctx)
		sw.Telnet = tn
	}

	// --------------------
	// Console loop (owns all CI state)
	// --------------------

	con := ci.New(ci.Config{
		Transport: sw,
		Board:     b,
		Processor: proc,
		Store:     store,
		Clock:     ci.NewSystemClock(cfg.Board.SystemClockHz),
		ClockHz:   cfg.Board.SystemClockHz,
		BurstBits: board.BurstBits(cfg.Board.DFIINPhases, cfg.Board.DFIIPixDataSize),
		HPDSpin:   cfg.Board.HPDSpin,
		Log:       log,
	})

	log.Info("console running", "mode", mode)
	con.Run(ctx, time.Duration(cfg.Console.PollIntervalMs)*time.Millisecond)
	log.Info("console stopped")
	return nil
}

// bootMode is the persisted resolution, or mode 0.
func bootMode(store *config.Store, log *slog.Logger) int {
	mode, ok := store.Get(config.KeyResolution)
	if !ok {
		return 0
	}
	if mode < 0 || mode >= processor.ModeCount() {
		log.Warn("stored video mode out of range, using 0", "mode", mode)
		return 0
	}
	return mode
}
