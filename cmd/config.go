package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bnema/wlscene/internal/config"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wlscene configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), renderConfig(config.Get(), config.GetConfigPath()))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Write a configuration file. Without --interactive the defaults are
written; with it, the primary window is set up through a short form.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(configPath); err == nil && !force {
			logger.Infof("Configuration file already exists at: %s", configPath)
			logger.Info("Use --force to overwrite")
			return nil
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive {
			if err := runConfigForm(config.Get()); err != nil {
				return err
			}
		}
		if err := config.Get().Validate(); err != nil {
			return err
		}
		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration initialized at: %s", configPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
	configInitCmd.Flags().BoolP("interactive", "i", false, "set up the window interactively")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigForm edits the window section of c in place.
func runConfigForm(c *config.Config) error {
	width := strconv.FormatUint(uint64(c.Window.Width), 10)
	height := strconv.FormatUint(uint64(c.Window.Height), 10)
	anchor := append([]string(nil), c.Window.Anchor...)

	layouts := input.Layouts()
	layoutOptions := make([]huh.Option[string], len(layouts))
	for i, l := range layouts {
		layoutOptions[i] = huh.NewOption(l, l)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Layer").
				Options(huh.NewOptions("background", "bottom", "top", "overlay")...).
				Value(&c.Window.Layer),
			huh.NewMultiSelect[string]().
				Title("Anchor").
				Description("Edges the window is attached to").
				Options(huh.NewOptions("top", "bottom", "left", "right")...).
				Value(&anchor),
			huh.NewInput().
				Title("Width").
				Validate(validateSize).
				Value(&width),
			huh.NewInput().
				Title("Height").
				Validate(validateSize).
				Value(&height),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Keyboard interactivity").
				Options(huh.NewOptions("none", "on_demand", "exclusive")...).
				Value(&c.Window.KeyboardInteractivity),
			huh.NewSelect[string]().
				Title("Keyboard layout").
				Options(layoutOptions...).
				Value(&c.Keyboard.Layout),
			huh.NewConfirm().
				Title("Open a child surface?").
				Value(&c.Child.Enabled),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("configuration cancelled: %w", err)
	}

	w, _ := strconv.ParseUint(width, 10, 32)
	h, _ := strconv.ParseUint(height, 10, 32)
	c.Window.Width, c.Window.Height = uint32(w), uint32(h)
	c.Window.Anchor = anchor
	return nil
}

func validateSize(s string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return fmt.Errorf("enter a positive number of pixels")
	}
	return nil
}

func renderConfig(c *config.Config, path string) string {
	var out strings.Builder
	line := func(k, v string) {
		out.WriteString(ui.FormatKeyValue(k, v))
		out.WriteString("\n")
	}
	section := func(title string) {
		out.WriteString("\n")
		out.WriteString(ui.FormatHeader(title))
		out.WriteString("\n")
	}

	line("Config file", path)

	section("Runner")
	line("Frame rate", strconv.Itoa(c.Runner.FrameRate))
	line("Namespace", c.Runner.Namespace)
	line("Display", c.Runner.Display)

	section("Window")
	line("Title", c.Window.Title)
	line("Size", fmt.Sprintf("%dx%d", c.Window.Width, c.Window.Height))
	line("Anchor", strings.Join(c.Window.Anchor, ", "))
	line("Exclusive zone", strconv.Itoa(int(c.Window.ExclusiveZone)))
	line("Margin", fmt.Sprint(c.Window.Margin))
	line("Keyboard interactivity", c.Window.KeyboardInteractivity)
	line("Layer", c.Window.Layer)

	section("Child surface")
	line("Enabled", strconv.FormatBool(c.Child.Enabled))
	line("Position", fmt.Sprintf("%d,%d", c.Child.X, c.Child.Y))
	line("Size", fmt.Sprintf("%dx%d", c.Child.Width, c.Child.Height))

	section("Keyboard")
	line("Layout", c.Keyboard.Layout)

	section("Logging")
	line("Level", c.Logging.LogLevel)
	return strings.TrimRight(out.String(), "\n")
}
