package cli

import (
	"fmt"
	"strings"

	"tourdesk/internal/format"
	"tourdesk/internal/model"

	"github.com/spf13/cobra"
)

func newLookupsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookups",
		Short: "Read the destination and hotel lookups used by booking forms",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "destinations",
		Short: "List destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			dests, err := client.Destinations(app.context(cmd))
			if err != nil {
				return writeAPIErr(cmd, err, "Failed to load destinations")
			}
			if humanFormat(app) {
				rows := make([][]string, 0, len(dests))
				for _, d := range dests {
					rows = append(rows, []string{d.ID, d.Name})
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), format.Grid([]string{"ID", "Name"}, rows))
				return err
			}
			if dests == nil {
				dests = []model.Destination{}
			}
			return writeOut(cmd, app, map[string]any{"data": dests})
		},
	})

	var destination string
	hotels := &cobra.Command{
		Use:   "hotels",
		Short: "List the hotels of a destination with their room types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(destination) == "" {
				return writeErr(cmd, fmt.Errorf("--destination is required"))
			}
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			hs, err := client.HotelsByDestination(app.context(cmd), destination)
			if err != nil {
				return writeAPIErr(cmd, err, "Failed to load hotels")
			}
			if humanFormat(app) {
				r := app.renderer()
				rows := make([][]string, 0, len(hs))
				for _, h := range hs {
					rts := make([]string, 0, len(h.RoomTypes))
					for _, rt := range h.RoomTypes {
						rts = append(rts, rt.Name+" "+r.Currency(rt.Rate))
					}
					rows = append(rows, []string{h.ID, h.HotelName, strings.Join(rts, ", ")})
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), format.Grid([]string{"ID", "Hotel", "Room types"}, rows))
				return err
			}
			if hs == nil {
				hs = []model.Hotel{}
			}
			return writeOut(cmd, app, map[string]any{"data": hs})
		},
	}
	hotels.Flags().StringVar(&destination, "destination", "", "Destination id")
	cmd.AddCommand(hotels)

	return cmd
}

func humanFormat(app *App) bool {
	return app.Format == "table" || app.Format == "cards"
}
