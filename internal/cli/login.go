package cli

import (
	"strings"

	"tourdesk/internal/api"
	"tourdesk/internal/store"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API base URL and bearer token in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}

			base := strings.TrimSpace(app.BaseURL)
			if base == "" {
				base, err = app.prompt.Input("API base URL", cfg.BaseURL, func(s string) error {
					if strings.TrimSpace(s) == "" {
						return goerr.New("base URL is required")
					}
					return nil
				})
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			token := strings.TrimSpace(app.Token)
			if token == "" {
				token, err = app.prompt.Password("Token")
				if err != nil {
					return writeErr(cmd, err)
				}
				token = strings.TrimSpace(token)
			}
			if token == "" {
				return writeErr(cmd, goerr.New("token is required"))
			}

			if check {
				c := api.New(base, api.StaticToken(token))
				c.Logger = app.logger()
				if _, err := c.Destinations(app.context(cmd)); err != nil {
					return writeAPIErr(cmd, err, "Login check failed")
				}
			}

			saved, err := store.UpdateConfig(func(cfg *store.GlobalConfig) {
				_ = cfg.Set("baseUrl", base)
				_ = cfg.Set("token", token)
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			path, _ := store.ConfigPath()
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"baseUrl": saved.BaseURL, "config": path}})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Verify the token against the API before saving")
	return cmd
}
