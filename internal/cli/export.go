package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tourdesk/internal/entity"
	"tourdesk/internal/format"
	"tourdesk/internal/page"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		out    string
		all    bool
		search string
	)

	cmd := &cobra.Command{
		Use:   "export [page...]",
		Short: "Export pages to an .xlsx workbook (one sheet per page)",
		Example: strings.TrimSpace(`
  tourdesk export customers --out customers.xlsx
  tourdesk export --all --out backoffice.xlsx
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := exportDefs(args, all)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(out) == "" {
				return writeErr(cmd, goerr.New("--out is required"))
			}
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx := app.context(cmd)
			sheets := make([]format.Sheet, len(defs))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(4)
			for i, def := range defs {
				g.Go(func() error {
					p := page.New(def, client, app.logger())
					if err := p.Load(gctx); err != nil {
						return goerr.Wrap(err, p.Err, goerr.V("page", def.Name))
					}
					p.List.SetQuery(search)
					sheets[i] = format.Sheet{Name: def.Title, Columns: def.Columns, Records: p.List.View()}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return writeErr(cmd, err)
			}

			if err := writeWorkbook(out, sheets, app); err != nil {
				return writeErr(cmd, err)
			}
			counts := map[string]any{}
			for i, def := range defs {
				counts[def.Name] = len(sheets[i].Records)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": out, "records": counts}})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Workbook path")
	cmd.Flags().BoolVar(&all, "all", false, "Export every page")
	cmd.Flags().StringVar(&search, "search", "", "Only rows matching this search")
	return cmd
}

func exportDefs(args []string, all bool) ([]*entity.Definition, error) {
	if all {
		if len(args) > 0 {
			return nil, goerr.New("pass page names or --all, not both")
		}
		return entity.All(), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no pages given (want %s, or --all)", strings.Join(entity.Names(), "|"))
	}
	var defs []*entity.Definition
	seen := map[string]bool{}
	for _, a := range args {
		def, ok := entity.Lookup(a)
		if !ok {
			return nil, fmt.Errorf("unknown page: %q (want %s)", a, strings.Join(entity.Names(), "|"))
		}
		if seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		defs = append(defs, def)
	}
	return defs, nil
}

func writeWorkbook(path string, sheets []format.Sheet, app *App) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create workbook", goerr.V("path", path))
	}
	if err := format.WriteXLSX(f, sheets, app.renderer()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close workbook", goerr.V("path", path))
	}
	return nil
}
