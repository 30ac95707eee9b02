package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"farmadmin/internal/client"
	"farmadmin/internal/page"
	"farmadmin/internal/render"
	"farmadmin/internal/schemas"

	"github.com/spf13/cobra"
)

func (a *app) entitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List the managed entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := make([]render.Stat, 0)
			for _, s := range schemas.All() {
				stats = append(stats, render.Stat{Label: strings.TrimPrefix(s.Path, "/"), Value: s.Title})
			}
			fmt.Fprint(a.out, render.Card("Entities", stats))
			return nil
		},
	}
}

// entityCmd builds "farmctl <collection> list|show|create|edit|delete|export".
func (a *app) entityCmd(s page.Schema) *cobra.Command {
	name := strings.TrimPrefix(s.Path, "/")
	cmd := &cobra.Command{
		Use:   name,
		Short: "Manage " + strings.ToLower(s.Title),
	}
	cmd.AddCommand(
		a.listCmd(s),
		a.showCmd(s),
		a.createCmd(s),
		a.editCmd(s),
		a.deleteCmd(s),
		a.exportCmd(s),
		a.importCmd(s),
	)
	return cmd
}

// newPage builds the page of s with extra list filters.
func (a *app) newPage(s page.Schema, filters []string) (*page.Page[client.Record], error) {
	extra, err := parsePairs(filters)
	if err != nil {
		return nil, err
	}
	query := make(map[string]string, len(s.Query)+len(extra))
	for k, v := range s.Query {
		query[k] = v
	}
	for k, v := range extra {
		query[k] = v
	}
	s.Query = query
	return schemas.NewPage(a.client, s, a.log, a, a), nil
}

func (a *app) listCmd(s page.Schema) *cobra.Command {
	var filters []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + strings.ToLower(s.Title),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.newPage(s, filters)
			if err != nil {
				return err
			}
			loadErr := p.Load(cmd.Context())
			// a failed load still renders, with no rows
			fmt.Fprint(a.out, render.Table(s, p.Items()))
			return loadErr
		},
	}
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "query filter key=value, e.g. status=ACTIVE (repeatable)")
	return cmd
}

func (a *app) showCmd(s page.Schema) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one " + s.Entity,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.fetch(cmd, s, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, render.Detail(s, rec))
			return nil
		},
	}
}

func (a *app) createCmd(s page.Schema) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + s.Entity,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePairs(sets)
			if err != nil {
				return err
			}
			p, err := a.newPage(s, nil)
			if err != nil {
				return err
			}
			p.OpenCreate()
			if err := a.submit(cmd, p, values); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s.\n", s.Entity)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "field value key=value (repeatable)")
	return cmd
}

func (a *app) editCmd(s page.Schema) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a " + s.Entity,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePairs(sets)
			if err != nil {
				return err
			}
			rec, err := a.fetch(cmd, s, args[0])
			if err != nil {
				return err
			}
			p, err := a.newPage(s, nil)
			if err != nil {
				return err
			}
			p.OpenEdit(rec)
			if err := a.submit(cmd, p, values); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s %d.\n", s.Entity, rec.ID())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "field value key=value (repeatable)")
	return cmd
}

// submit fills the open form from values, in field order, and submits it.
func (a *app) submit(cmd *cobra.Command, p *page.Page[client.Record], values map[string]string) error {
	s := p.Schema()
	for k := range values {
		if _, ok := s.Field(k); !ok {
			return fmt.Errorf("%s has no field %q", s.Entity, k)
		}
	}
	for _, f := range s.Fields {
		if v, ok := values[f.Name]; ok {
			p.SetField(f.Name, v)
		}
	}
	if err := p.Submit(cmd.Context()); err != nil {
		return &alertedError{err}
	}
	return nil
}

func (a *app) deleteCmd(s page.Schema) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + s.Entity,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.newPage(s, nil)
			if err != nil {
				return err
			}
			deleted, err := p.Delete(cmd.Context(), client.Record{"id": float64(id)})
			if err != nil {
				return &alertedError{err}
			}
			if !deleted {
				fmt.Fprintln(a.out, "Cancelled.")
				return nil
			}
			fmt.Fprintf(a.out, "Deleted %s %d.\n", s.Entity, id)
			return nil
		},
	}
}

func (a *app) exportCmd(s page.Schema) *cobra.Command {
	var (
		filters []string
		path    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export " + strings.ToLower(s.Title) + " to an xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.newPage(s, filters)
			if err != nil {
				return err
			}
			if err := p.Load(cmd.Context()); err != nil {
				return err
			}
			if path == "" {
				path = strings.TrimPrefix(s.Path, "/") + ".xlsx"
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := render.Export(f, s, p.Items()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported %d %s to %s.\n", len(p.Items()), strings.ToLower(s.Title), path)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "query filter key=value (repeatable)")
	cmd.Flags().StringVarP(&path, "out", "o", "", "output file (default <entity>.xlsx)")
	return cmd
}

func (a *app) importCmd(s page.Schema) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Create " + strings.ToLower(s.Title) + " from the rows of an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !strings.HasSuffix(strings.ToLower(args[0]), ".xlsx") {
				return fmt.Errorf("only .xlsx files can be imported")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			sheet, err := render.ReadSheet(f, s)
			if err != nil {
				return err
			}
			if len(sheet.Ignored) > 0 {
				fmt.Fprintf(a.out, "Ignoring columns: %s\n", strings.Join(sheet.Ignored, ", "))
			}

			p, err := a.newPage(s, nil)
			if err != nil {
				return err
			}
			created := 0
			var failed []string
			for i, form := range sheet.Forms {
				p.OpenCreate()
				values := make(map[string]string, len(form))
				for k := range form {
					values[k] = form.String(k)
				}
				if err := a.submit(cmd, p, values); err != nil {
					failed = append(failed, fmt.Sprint(sheet.Rows[i]))
					p.CloseModal()
					continue
				}
				created++
			}
			fmt.Fprintf(a.out, "Imported %d %s. %d row(s) failed.\n", created, strings.ToLower(s.Title), len(failed))
			if len(failed) > 0 {
				return &alertedError{fmt.Errorf("rows %s were not imported", strings.Join(failed, ", "))}
			}
			return nil
		},
	}
}

func (a *app) fetch(cmd *cobra.Command, s page.Schema, arg string) (client.Record, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	return schemas.Resource(a.client, s).Get(cmd.Context(), id)
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(id), nil
}
