package cli

import (
	"context"
	"fmt"
	"strings"

	"tourdesk/internal/api"
	"tourdesk/internal/detail"
	"tourdesk/internal/entity"
	"tourdesk/internal/form"
	"tourdesk/internal/format"
	"tourdesk/internal/model"
	"tourdesk/internal/page"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

func newEntityCmd(app *App, def *entity.Definition) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.Name,
		Short: def.Title + " commands",
	}
	cmd.AddCommand(newEntityListCmd(app, def))
	cmd.AddCommand(newEntityShowCmd(app, def))
	cmd.AddCommand(newEntityCreateCmd(app, def))
	cmd.AddCommand(newEntityEditCmd(app, def))
	cmd.AddCommand(newEntityDeleteCmd(app, def))
	return cmd
}

func recordView(app *App, def *entity.Definition) format.RecordView {
	return format.RecordView{
		Title:    def.Title,
		Columns:  def.Columns,
		CardKey:  def.CardTitle,
		CardMeta: def.CardMeta,
		Renderer: app.renderer(),
	}
}

func newEntityListCmd(app *App, def *entity.Definition) *cobra.Command {
	var (
		search string
		sortBy string
		order  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + strings.ToLower(def.Title),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			p := page.New(def, client, app.logger())
			if err := p.Load(app.context(cmd)); err != nil {
				return writeAPIErr(cmd, err, p.Err)
			}
			if sortBy != "" {
				if !hasSortOption(p, sortBy) {
					return writeErr(cmd, fmt.Errorf("unknown sort key: %q (want %s)", sortBy, strings.Join(sortValues(p), "|")))
				}
				p.List.SetSort(sortBy)
			}
			if order != "" {
				o, err := model.ParseSortOrder(order)
				if err != nil {
					return writeErr(cmd, err)
				}
				p.List.SetOrder(o)
			}
			p.List.SetQuery(search)
			return format.WriteRecords(cmd.OutOrStdout(), p.List.View(), recordView(app, def), app.Format, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive search over "+strings.Join(def.List.SearchFields, ", "))
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort key ("+strings.Join(optionValues(def.List.SortOptions), "|")+")")
	cmd.Flags().StringVar(&order, "order", "", "Sort order (asc|desc)")
	return cmd
}

func optionValues(opts []model.SortOption) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

func sortValues(p *page.Page) []string { return optionValues(p.List.SortOptions()) }

func hasSortOption(p *page.Page, key string) bool {
	for _, v := range sortValues(p) {
		if v == key {
			return true
		}
	}
	return false
}

func newEntityShowCmd(app *App, def *entity.Definition) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one " + def.Singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := client.Get(app.context(cmd), def.Resource, args[0])
			if err != nil {
				return writeAPIErr(cmd, err, "Failed to load record")
			}
			return writeRecord(cmd, app, def, rec)
		},
	}
	return cmd
}

// writeRecord prints a single record: field lines for the human formats, the
// data envelope otherwise.
func writeRecord(cmd *cobra.Command, app *App, def *entity.Definition, rec model.Record) error {
	switch app.Format {
	case "table", "cards":
		lines := app.renderer().Render(rec, def.Fields, true)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), detail.Text(lines))
		return err
	}
	return writeOut(cmd, app, map[string]any{"data": rec})
}

func newEntityCreateCmd(app *App, def *entity.Definition) *cobra.Command {
	var (
		sets        []string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + def.Singular,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			p := page.New(def, client, app.logger())
			return submitForm(cmd, app, p, client, p.NewForm(nil), sets, interactive)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as key=value (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for every field")
	return cmd
}

func newEntityEditCmd(app *App, def *entity.Definition) *cobra.Command {
	var (
		sets        []string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a " + def.Singular + " (the whole record is sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			existing, err := client.Get(app.context(cmd), def.Resource, args[0])
			if err != nil {
				return writeAPIErr(cmd, err, "Failed to load record")
			}
			if existing.ID() == "" {
				existing[model.IDKey] = args[0]
			}
			p := page.New(def, client, app.logger())
			return submitForm(cmd, app, p, client, p.NewForm(existing), sets, interactive)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as key=value (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for every field")
	return cmd
}

func submitForm(cmd *cobra.Command, app *App, p *page.Page, lookups page.Lookups, c *form.Controller, sets []string, interactive bool) error {
	ctx := app.context(cmd)
	if !interactive && len(sets) == 0 {
		return writeErr(cmd, goerr.New("nothing to set; pass --set key=value or --interactive"))
	}
	if err := applySets(c, sets); err != nil {
		return writeErr(cmd, err)
	}
	if interactive {
		if err := promptForm(ctx, app.prompt, lookups, c); err != nil {
			return writeErr(cmd, err)
		}
	} else if setsKey(sets, "roomType") {
		// Fill the chosen room type's rates like the interactive form does.
		opts := page.NewOptions(lookups)
		if err := opts.Prime(ctx, c); err != nil {
			return writeAPIErr(cmd, err, page.Message("lookup", err))
		}
		if err := opts.Changed(ctx, c, "roomType"); err != nil {
			return writeAPIErr(cmd, err, page.Message("lookup", err))
		}
	}
	rec, err := c.Submit(ctx)
	if err != nil {
		return writeAPIErr(cmd, err, page.Message("save", err))
	}
	p.ApplySaved(rec)
	return writeRecord(cmd, app, p.Def, rec)
}

// applySets copies key=value pairs into the draft in flag order, so a later
// --set destination=... still clears a hotel set earlier.
func applySets(c *form.Controller, sets []string) error {
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q (want key=value)", kv)
		}
		if _, known := c.Spec().Field(key); !known {
			return fmt.Errorf("unknown field: %q (want %s)", key, strings.Join(fieldKeys(c.Spec()), ", "))
		}
		c.Set(key, value)
	}
	return nil
}

func setsKey(sets []string, key string) bool {
	for _, kv := range sets {
		if k, _, _ := strings.Cut(kv, "="); strings.TrimSpace(k) == key {
			return true
		}
	}
	return false
}

func fieldKeys(s form.Spec) []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Key)
	}
	return out
}

// promptForm walks every field in order. Select options are refreshed as
// relations change, so choosing a destination narrows the hotels offered.
func promptForm(ctx context.Context, pr prompter, lookups page.Lookups, c *form.Controller) error {
	opts := page.NewOptions(lookups)
	if err := opts.Prime(ctx, c); err != nil {
		return err
	}
	for _, f := range c.Spec().Fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		if f.Input == form.InputSelect {
			choices := c.Options(f.Key)
			labels := make([]string, 0, len(choices)+1)
			values := make([]string, 0, len(choices)+1)
			if !f.Required {
				labels = append(labels, "(none)")
				values = append(values, "")
			}
			def := 0
			for _, o := range choices {
				if o.Value == c.Text(f.Key) {
					def = len(values)
				}
				labels = append(labels, o.Label)
				values = append(values, o.Value)
			}
			if len(values) == 0 {
				continue
			}
			idx, err := pr.Select(label, labels, def)
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(values) {
				continue
			}
			c.SetValue(f.Key, values[idx])
			if err := opts.Changed(ctx, c, f.Key); err != nil {
				return err
			}
			continue
		}

		field := f
		answer, err := pr.Input(label, c.Text(f.Key), func(s string) error {
			probe := form.New(form.Spec{Fields: []form.FieldSpec{field}}, nil, nil)
			probe.Set(field.Key, s)
			return probe.Validate()
		})
		if err != nil {
			return err
		}
		c.Set(f.Key, answer)
	}
	return nil
}

func newEntityDeleteCmd(app *App, def *entity.Definition) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + def.Singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.newClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if !yes {
				ok, err := app.prompt.Confirm(fmt.Sprintf("Delete %s %s?", def.Singular, id), false)
				if err != nil {
					return writeErr(cmd, err)
				}
				if !ok {
					return writeErr(cmd, errAborted)
				}
			}

			p := page.New(def, client, app.logger())
			if err := p.Delete.Begin(model.Record{model.IDKey: id}); err != nil {
				return writeErr(cmd, err)
			}
			if err := p.ConfirmDelete(app.context(cmd)); err != nil {
				return writeAPIErr(cmd, err, p.Err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id, "resource": def.Resource}})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

var _ page.Lookups = (*api.Client)(nil)
