package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/hrms/internal/client"
	"github.com/alfredjeanlab/hrms/internal/events"
	"github.com/alfredjeanlab/hrms/internal/export"
	"github.com/alfredjeanlab/hrms/internal/listctl"
	"github.com/alfredjeanlab/hrms/internal/model"
	"github.com/spf13/cobra"
)

// resourceCommand is the type-erased face of a resourceDef, used by the
// commands that take a resource name (browse, watch, export).
type resourceCommand interface {
	resourceName() string
	aliasNames() []string
	command() *cobra.Command
	columnNames() []string
	session(c *client.HTTPClient, initial model.Filters, opts ...listctl.Option) listSession
	collect(ctx context.Context, c *client.HTTPClient, f model.Filters, maxPages int) (*export.Dataset, error)
}

// filterFlag maps a list flag onto a query filter key.
type filterFlag struct {
	flag  string
	key   string
	usage string
}

// resourceDef describes one entity collection and how to render it.
type resourceDef[T any] struct {
	name     string
	singular string
	aliases  []string
	resource func(*client.HTTPClient) *client.Resource[T]
	columns  []string
	row      func(T) []string
	detail   func(T) []detailField
	id       func(T) string
	filters  []filterFlag
	validate func(body map[string]any, partial bool) error
	extra    func() []*cobra.Command
}

func (s *resourceDef[T]) resourceName() string  { return s.name }
func (s *resourceDef[T]) columnNames() []string { return s.columns }
func (s *resourceDef[T]) aliasNames() []string  { return s.aliases }

func (s *resourceDef[T]) rows(items []T) [][]string {
	out := make([][]string, len(items))
	for i, it := range items {
		out[i] = s.row(it)
	}
	return out
}

func (s *resourceDef[T]) session(c *client.HTTPClient, initial model.Filters, opts ...listctl.Option) listSession {
	ctl := listctl.New[T](initial, s.resource(c).List, opts...)
	return &controllerSession[T]{Controller: ctl, def: s}
}

func (s *resourceDef[T]) collect(ctx context.Context, c *client.HTTPClient, f model.Filters, maxPages int) (*export.Dataset, error) {
	return export.Collect[T](ctx, s.name, s.resource(c).List, f, s.columns, s.row, maxPages)
}

func (s *resourceDef[T]) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     s.name,
		Aliases: s.aliases,
		Short:   fmt.Sprintf("Manage %s", strings.ReplaceAll(s.name, "-", " ")),
		GroupID: "records",
	}
	cmd.AddCommand(s.listCmd(), s.showCmd(), s.createCmd(), s.updateCmd(), s.deleteCmd())
	if s.extra != nil {
		cmd.AddCommand(s.extra()...)
	}
	return cmd
}

func (s *resourceDef[T]) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + s.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := listFilters(cmd, s.filters)
			if err != nil {
				return err
			}
			all, _ := cmd.Flags().GetBool("all")
			res := s.resource(hrClient)
			ctx := cmd.Context()

			var items []T
			var pagination *model.Pagination
			if all {
				items, err = res.All(ctx, f, 0)
			} else {
				var page *model.Page[T]
				page, err = res.List(ctx, f)
				if page != nil {
					items, pagination = page.Items, page.Pagination
				}
			}
			if err != nil {
				return fmt.Errorf("listing %s: %w", s.name, err)
			}
			if items == nil {
				items = []T{}
			}
			return printList(cmd.OutOrStdout(), currentOutput(), listView{
				Resource:   s.name,
				Columns:    s.columns,
				Rows:       s.rows(items),
				Pagination: pagination,
				Records:    items,
			})
		},
	}
	addListFlags(cmd, s.filters)
	cmd.Flags().Bool("all", false, "fetch every page")
	return cmd
}

func (s *resourceDef[T]) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one " + s.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := s.resource(hrClient).Get(cmd.Context(), args[0])
			if client.IsNotFound(err) {
				return fmt.Errorf("%s %s not found", s.singular, args[0])
			}
			if err != nil {
				return fmt.Errorf("getting %s %s: %w", s.singular, args[0], err)
			}
			return printDetail(cmd.OutOrStdout(), currentOutput(), rec, s.detail(*rec))
		},
	}
}

func (s *resourceDef[T]) createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + s.singular,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := bodyFromFlags(cmd)
			if err != nil {
				return err
			}
			if s.validate != nil {
				if err := s.validate(body, false); err != nil {
					return err
				}
			}
			rec, err := s.resource(hrClient).Create(cmd.Context(), body)
			if err != nil {
				return fmt.Errorf("creating %s: %w", s.singular, err)
			}
			notifyChange(cmd.Context(), s.name, events.ActionCreated, s.id(*rec))
			return printDetail(cmd.OutOrStdout(), currentOutput(), rec, s.detail(*rec))
		},
	}
	addBodyFlags(cmd)
	return cmd
}

func (s *resourceDef[T]) updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + s.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := bodyFromFlags(cmd)
			if err != nil {
				return err
			}
			if s.validate != nil {
				if err := s.validate(body, true); err != nil {
					return err
				}
			}
			rec, err := s.resource(hrClient).Update(cmd.Context(), args[0], body)
			if err != nil {
				return fmt.Errorf("updating %s %s: %w", s.singular, args[0], err)
			}
			notifyChange(cmd.Context(), s.name, events.ActionUpdated, args[0])
			return printDetail(cmd.OutOrStdout(), currentOutput(), rec, s.detail(*rec))
		},
	}
	addBodyFlags(cmd)
	return cmd
}

func (s *resourceDef[T]) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + s.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.resource(hrClient).Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting %s %s: %w", s.singular, args[0], err)
			}
			notifyChange(cmd.Context(), s.name, events.ActionDeleted, args[0])
			if currentOutput() == outputJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", s.singular, args[0])
			return nil
		},
	}
}

// addListFlags registers the filter, sort and paging flags shared by list,
// browse, watch and export.
func addListFlags(cmd *cobra.Command, extra []filterFlag) {
	cmd.Flags().StringP("search", "s", "", "free-text search")
	cmd.Flags().String("status", "", "filter by status")
	cmd.Flags().String("created-by", "", "filter by creator id")
	cmd.Flags().String("sort", model.DefaultSortBy, "sort field")
	cmd.Flags().String("order", string(model.SortDesc), "sort order (asc or desc)")
	cmd.Flags().Int("page", model.DefaultPage, "page number")
	cmd.Flags().Int("limit", 0, "page size (default $HRMS_PAGE_LIMIT or 10)")
	cmd.Flags().StringArrayP("filter", "f", nil, "extra query filter (key=value, repeatable)")
	for _, ff := range extra {
		cmd.Flags().String(ff.flag, "", ff.usage)
	}
}

// listFilters builds the query filters from the flags added by addListFlags.
func listFilters(cmd *cobra.Command, extra []filterFlag) (model.Filters, error) {
	flags := cmd.Flags()
	f := model.DefaultFilters()
	f[model.FilterLimit] = strconv.Itoa(cfg.PageLimit)

	str := func(name string) string { v, _ := flags.GetString(name); return v }
	f[model.FilterSearch] = str("search")
	f[model.FilterStatus] = str("status")
	if v := str("created-by"); v != "" {
		f[model.FilterCreatedBy] = v
	}
	f[model.FilterSortBy] = str("sort")

	order := model.SortOrder(strings.ToLower(str("order")))
	if !order.IsValid() {
		return nil, fmt.Errorf("invalid --order %q (must be asc or desc)", order)
	}
	f[model.FilterSortOrder] = string(order)

	if page, _ := flags.GetInt("page"); page > 0 {
		f[model.FilterPage] = strconv.Itoa(page)
	} else {
		return nil, fmt.Errorf("invalid --page %d (must be positive)", page)
	}
	if limit, _ := flags.GetInt("limit"); limit < 0 {
		return nil, fmt.Errorf("invalid --limit %d (must be positive)", limit)
	} else if limit > 0 {
		f[model.FilterLimit] = strconv.Itoa(limit)
	}

	for _, ff := range extra {
		if v := str(ff.flag); v != "" {
			f[ff.key] = v
		}
	}
	pairs, _ := flags.GetStringArray("filter")
	for _, p := range pairs {
		k, v, ok := splitField(p)
		if !ok {
			return nil, fmt.Errorf("invalid filter %q (expected key=value)", p)
		}
		f[k] = v
	}
	return f, nil
}

func addBodyFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, "field to send (key=value, repeatable; JSON literals are decoded)")
	cmd.Flags().String("file", "", "JSON object to send (\"-\" reads stdin)")
}

func bodyFromFlags(cmd *cobra.Command) (map[string]any, error) {
	file, _ := cmd.Flags().GetString("file")
	pairs, _ := cmd.Flags().GetStringArray("set")
	return buildBody(file, cmd.InOrStdin(), pairs)
}

// findResource looks a resource up by name or alias.
func findResource(name string) (resourceCommand, error) {
	for _, r := range registry {
		if r.resourceName() == name || slices.Contains(r.aliasNames(), name) {
			return r, nil
		}
	}
	names := make([]string, len(registry))
	for i, r := range registry {
		names[i] = r.resourceName()
	}
	return nil, fmt.Errorf("unknown resource %q (one of: %s)", name, strings.Join(names, ", "))
}

// resourceNames is the shell completion for commands taking a resource.
func resourceNames(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, len(registry))
	for i, r := range registry {
		names[i] = r.resourceName()
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// requireOnCreate returns a validator that checks fields only on create.
func requireOnCreate(fields ...string) func(map[string]any, bool) error {
	return func(body map[string]any, partial bool) error {
		if partial {
			return nil
		}
		return model.RequireFields(body, fields...)
	}
}

// validateAll runs validators in order and merges their field errors.
func validateAll(fns ...func(map[string]any, bool) error) func(map[string]any, bool) error {
	return func(body map[string]any, partial bool) error {
		var ve model.ValidationError
		for _, fn := range fns {
			err := fn(body, partial)
			if err == nil {
				continue
			}
			inner, ok := err.(*model.ValidationError)
			if !ok {
				return err
			}
			ve.Errors = append(ve.Errors, inner.Errors...)
		}
		return ve.Err()
	}
}

// validRecordStatus checks an optional active/inactive status field.
func validRecordStatus(body map[string]any, _ bool) error {
	v := stringField(body, "status")
	if v == "" || model.RecordStatus(v).IsValid() {
		return nil
	}
	var ve model.ValidationError
	ve.Add("status", fmt.Sprintf("invalid value %q (must be active or inactive)", v))
	return ve.Err()
}
