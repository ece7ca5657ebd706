package cli

import (
	"fmt"
	"strings"

	"tourdesk/internal/store"

	"github.com/spf13/cobra"
)

const maskedToken = "********"

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write ~/.tourdesk/config.json",
	}

	var reveal bool
	get := &cobra.Command{
		Use:   "get [key]",
		Short: "Print one key, or every key when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 1 {
				v, err := cfg.Get(args[0])
				if err != nil {
					return writeErr(cmd, fmt.Errorf("unknown config key: %q (want %s)", args[0], strings.Join(store.Keys, "|")))
				}
				if args[0] == "token" && v != "" && !reveal {
					v = maskedToken
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			}
			out := map[string]any{}
			for _, k := range store.Keys {
				v, _ := cfg.Get(k)
				if k == "token" && v != "" && !reveal {
					v = maskedToken
				}
				out[k] = v
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	get.Flags().BoolVar(&reveal, "reveal", false, "Print the token instead of a mask")
	cmd.AddCommand(get)

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a key (" + strings.Join(store.Keys, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	})

	return cmd
}
