package cli

import (
	"fmt"
	"strings"

	"tourdesk/internal/entity"
	"tourdesk/internal/page"
	"tourdesk/internal/publish"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		to        string
		overwrite bool
		render    bool
	)

	cmd := &cobra.Command{
		Use:   "publish <page> [id]",
		Short: "Render a page or one record as markdown",
		Long: strings.TrimSpace(`
With an id, prints that record as markdown. Without one, prints the page
index; with --to, writes <dir>/<page>/index.md plus one file per record.
`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := entity.Lookup(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown page: %q (want %s)", args[0], strings.Join(entity.Names(), "|")))
			}
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := app.context(cmd)

			if len(args) == 2 {
				rec, err := client.Get(ctx, def.Resource, args[1])
				if err != nil {
					return writeAPIErr(cmd, err, "Failed to load record")
				}
				return printMarkdown(cmd, publish.RenderRecordMarkdown(def, rec, app.renderer()), render)
			}

			p := page.New(def, client, app.logger())
			if err := p.Load(ctx); err != nil {
				return writeAPIErr(cmd, err, p.Err)
			}
			if strings.TrimSpace(to) == "" {
				return printMarkdown(cmd, publish.RenderPageMarkdown(def, p.List.View(), app.renderer()), render)
			}
			res, err := publish.WritePage(def, p.List.View(), to, publish.WriteOptions{Overwrite: overwrite, Renderer: app.renderer()})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Write markdown files under this directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	cmd.Flags().BoolVar(&render, "render", false, "Render markdown for the terminal")
	return cmd
}

func printMarkdown(cmd *cobra.Command, md string, render bool) error {
	if render {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return writeErr(cmd, err)
		}
		if out, err := r.Render(md); err == nil {
			md = out
		}
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), md)
	return err
}
