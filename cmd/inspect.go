package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/wlscene/internal/config"
	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/handlers"
	"github.com/bnema/wlscene/internal/protocols"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
	"github.com/bnema/wlscene/internal/ui"
	"github.com/bnema/wlscene/internal/wayland"
)

var inspectSettle time.Duration

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the compositor's globals, outputs and seat devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		client, err := wayland.Connect(wayland.Options{Display: cfg.Runner.Display, Namespace: cfg.Runner.Namespace})
		if err != nil {
			return err
		}
		defer client.Close()

		registry := surface.NewRegistry(client)
		state := handlers.New(handlers.Options{
			Registry: registry,
			World:    scene.NewWorld(),
			Events:   &event.Buffer{},
			Binder:   client,
		})
		if err := client.Start(state); err != nil {
			return err
		}
		// Let late output and seat events arrive.
		if err := client.Dispatch(inspectSettle); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderInspect(inspectReport{
			Display: client.DisplayName(),
			Globals: client.Globals(),
			Outputs: state.Outputs(),
			Seat:    client.SeatName(),
			Devices: state.Devices(),
		}))
		return nil
	},
}

func init() {
	inspectCmd.Flags().DurationVar(&inspectSettle, "settle", 200*time.Millisecond, "time to wait for late events")
}

// requiredGlobals are the globals the bridge cannot run without.
var requiredGlobals = []string{
	"wl_compositor",
	"wl_subcompositor",
	"wl_seat",
	protocols.LayerShellInterfaceName,
}

type inspectReport struct {
	Display string
	Globals []wayland.Global
	Outputs []handlers.Output
	Seat    string
	Devices []string
}

func renderInspect(r inspectReport) string {
	var out strings.Builder

	out.WriteString(ui.FormatHeader("Display"))
	out.WriteString("\n")
	out.WriteString(ui.FormatKeyValue("Socket", r.Display))
	out.WriteString("\n\n")

	advertised := make(map[string]bool, len(r.Globals))
	rows := make([][]string, 0, len(r.Globals))
	for _, g := range r.Globals {
		advertised[g.Interface] = true
		rows = append(rows, []string{strconv.FormatUint(uint64(g.Name), 10), g.Interface, strconv.FormatUint(uint64(g.Version), 10)})
	}

	out.WriteString(ui.FormatHeader("Required globals"))
	out.WriteString("\n")
	for _, iface := range requiredGlobals {
		out.WriteString(ui.FormatCheck(advertised[iface], iface))
		out.WriteString("\n")
	}
	out.WriteString("\n")

	out.WriteString(ui.FormatHeader("Globals"))
	out.WriteString("\n")
	out.WriteString(ui.Table([]string{"NAME", "INTERFACE", "VERSION"}, rows))
	out.WriteString("\n\n")

	out.WriteString(ui.FormatHeader("Outputs"))
	out.WriteString("\n")
	if len(r.Outputs) == 0 {
		out.WriteString(ui.SubtleStyle.Render("  No outputs"))
	} else {
		rows = rows[:0]
		for _, o := range r.Outputs {
			rows = append(rows, []string{
				o.Name,
				fmt.Sprintf("%dx%d", o.Width, o.Height),
				fmt.Sprintf("%.2f Hz", float64(o.RefreshMHz)/1000),
				strconv.Itoa(int(o.Scale)),
				strings.TrimSpace(o.Make + " " + o.Model),
			})
		}
		out.WriteString(ui.Table([]string{"NAME", "MODE", "REFRESH", "SCALE", "MODEL"}, rows))
	}
	out.WriteString("\n\n")

	out.WriteString(ui.FormatHeader("Seat"))
	out.WriteString("\n")
	out.WriteString(ui.FormatKeyValue("Name", r.Seat))
	out.WriteString("\n")
	out.WriteString(ui.FormatKeyValue("Devices", strings.Join(r.Devices, ", ")))
	return out.String()
}
