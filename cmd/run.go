package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/wlscene/internal/config"
	"github.com/bnema/wlscene/internal/demo"
	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/handlers"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/runner"
	"github.com/bnema/wlscene/internal/surface"
	"github.com/bnema/wlscene/internal/wayland"
)

var (
	runChild     bool
	runFrameRate int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the configured windows and run the event loop",
	Long: `Open the primary window (and its child surface when enabled) on the
compositor and run until Escape is pressed, the compositor closes the last
window, or the process is interrupted.`,
	RunE: runDemo,
}

func init() {
	runCmd.Flags().BoolVar(&runChild, "child", false, "also open the child surface")
	runCmd.Flags().IntVar(&runFrameRate, "frame-rate", 0, "override runner.frame_rate")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := *config.Get()
	if runChild {
		cfg.Child.Enabled = true
	}
	if runFrameRate > 0 {
		cfg.Runner.FrameRate = runFrameRate
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	keymap, err := input.NewKeymap(cfg.Keyboard.Layout)
	if err != nil {
		return err
	}
	host, err := demo.New(&cfg)
	if err != nil {
		return err
	}

	client, err := wayland.Connect(wayland.Options{
		Display:   cfg.Runner.Display,
		Namespace: cfg.Runner.Namespace,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	events := &event.Buffer{}
	registry := surface.NewRegistry(client)
	state := handlers.New(handlers.Options{
		Registry: registry,
		World:    host.World(),
		Events:   events,
		Keymap:   keymap,
		Binder:   client,
	})
	if err := client.Start(state); err != nil {
		return err
	}

	r := runner.New(client, host, registry, events, runner.Options{FrameRate: cfg.Runner.FrameRate})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Running", "display", client.DisplayName(), "frame_rate", cfg.Runner.FrameRate, "child", cfg.Child.Enabled)
	if err := r.Run(ctx); err != nil {
		return err
	}
	logger.Infof("Stopped after %d iterations (%s)", r.Iterations(), formatSeen(host.Seen))
	return nil
}

// formatSeen renders event counts as "kind=n" pairs ordered by kind.
func formatSeen(seen map[string]int) string {
	if len(seen) == 0 {
		return "no events"
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s=%d", k, seen[k])
	}
	return strings.Join(parts, " ")
}
