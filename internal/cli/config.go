package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dailydose/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Show or change settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.showConfig()
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting in config.yaml",
			Args:  requireArgs(2, "config set <key> <value>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := a.cfg
				if err := cfg.Set(args[0], args[1]); err != nil {
					return failed("config set", err)
				}
				if err := config.Write(config.Path(a.gf.Root), cfg); err != nil {
					return failed("config set", err)
				}
				a.cfg = cfg
				a.printf("Updated %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func (a *app) showConfig() error {
	path := config.Path(a.gf.Root)
	_, err := os.Stat(path)
	exists := err == nil

	if a.format() == config.FormatJSON {
		payload := map[string]any{
			"root":        a.gf.Root,
			"config_path": path,
			"exists":      exists,
			"database":    a.cfg.DatabasePath(a.gf.Root),
			"config":      a.cfg,
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return failed("config show", err)
		}
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintf(w, "root\t%s\n", a.gf.Root)
	if exists {
		fmt.Fprintf(w, "config_path\t%s\n", path)
	} else {
		fmt.Fprintf(w, "config_path\t%s (not found; defaults shown)\n", path)
	}
	for _, key := range config.Keys() {
		v, _ := a.cfg.Get(key)
		fmt.Fprintf(w, "%s\t%s\n", key, v)
	}
	if err := w.Flush(); err != nil {
		return failed("config show", err)
	}
	return nil
}
