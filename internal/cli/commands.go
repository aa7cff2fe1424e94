package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/method"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  salah config set latitude 21.4225\n  salah config set longitude 39.8262\n  salah config set utc_offset 3\n  salah config set method umm-al-qura\n  salah config set time_format 12h\n  salah config set prayers fajr,dohr,asr,maghreb,ishaa",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = display.Gray("(not set)")
		}
		if key == "method" && val != "" {
			shown = formatMethodValue(val)
		}
		fmt.Fprintf(out, "  %-17s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

// runConfigGet prints one config value, empty when unset.
func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	val, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method name to the slug.
func formatMethodValue(val string) string {
	m, err := method.ParseMethod(val)
	if err != nil {
		return val
	}
	return fmt.Sprintf("%s (%s)", val, m)
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of supported calculation methods with their twilight angles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if FlagJSON {
				return printJSON(out, methodsJSON())
			}

			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)

			tbl := display.NewTable([]string{"Method", "Name", "Fajr", "Ishaa", "Al Adhan"})
			for _, info := range method.All() {
				cfg := info.Method.Config()
				tbl.AddRow(info.Slug, info.Name, formatAngle(cfg.FajrAngle), formatIshaa(cfg), formatAlAdhanID(info.Method))
			}
			fmt.Fprint(out, tbl.Render())

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use --method <method> to select a calculation method.")
			fmt.Fprintf(out, "If omitted, %s is used.\n", method.Default().Method)
			return nil
		},
	}
}

type methodJSON struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	FajrAngle   float32 `json:"fajr_angle"`
	Ishaa       string  `json:"ishaa"`
}

func methodsJSON() []methodJSON {
	all := method.All()
	out := make([]methodJSON, len(all))
	for i, info := range all {
		cfg := info.Method.Config()
		out[i] = methodJSON{
			Slug:        info.Slug,
			Name:        info.Name,
			Description: info.Description,
			FajrAngle:   cfg.FajrAngle,
			Ishaa:       formatIshaa(cfg),
		}
	}
	return out
}

func formatAngle(a float32) string {
	return strconv.FormatFloat(float64(a), 'f', -1, 32) + "°"
}

// formatIshaa describes how a method places Ishaa.
func formatIshaa(cfg method.Config) string {
	if cfg.IshaInterval.Set() {
		return fmt.Sprintf("%s min (%s in Ramadan)",
			strconv.FormatFloat(float64(cfg.IshaInterval.Minutes), 'f', -1, 32),
			strconv.FormatFloat(float64(cfg.IshaInterval.RamadanMinutes), 'f', -1, 32))
	}
	return formatAngle(cfg.IshaaAngle)
}

func formatAlAdhanID(m method.Method) string {
	if id, ok := m.AlAdhanID(); ok {
		return strconv.Itoa(id)
	}
	return "-"
}
