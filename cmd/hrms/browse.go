package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/alfredjeanlab/hrms/internal/client"
	"github.com/alfredjeanlab/hrms/internal/listctl"
	"github.com/alfredjeanlab/hrms/internal/model"
	"github.com/alfredjeanlab/hrms/internal/ui"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse <resource>",
	Short: "Interactive list with live search",
	Long: `Open an interactive list of a resource.

Typing at the prompt searches as you type; the list refreshes once typing
pauses. Lines starting with a dot are commands (.help lists them).`,
	GroupID:           "views",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: resourceNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findResource(args[0])
		if err != nil {
			return err
		}
		f, err := listFilters(cmd, nil)
		if err != nil {
			return err
		}
		sess := r.session(hrClient, f, listctl.WithDebounce(cfg.Debounce), listctl.WithLogger(logger))
		defer sess.Close()
		return runBrowser(cmd, r, sess)
	},
}

func init() {
	addListFlags(browseCmd, nil)
}

func runBrowser(cmd *cobra.Command, r resourceCommand, sess listSession) error {
	b := &browser{
		session:     sess,
		resource:    r.resourceName(),
		departments: departmentChoices(cmd.Context(), hrClient),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          b.prompt(sess.Snapshot()),
		AutoComplete:    b.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Listener: readline.FuncListener(func(line []rune, pos int, key rune) ([]rune, int, bool) {
			b.onType(string(line), key)
			return nil, 0, false
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() { _ = rl.Close() }()

	b.out = rl.Stdout()
	b.clearScreen = ui.IsTerminal(os.Stdout)
	b.setPrompt = func(p string) {
		rl.SetPrompt(p)
		rl.Refresh()
	}

	fmt.Fprintf(b.out, "Browsing %s. Type to search, .help for commands, .quit to exit\n", ui.RenderAccent(b.resource))
	sess.Start(cmd.Context())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range sess.Updates() {
			b.show(sess.Snapshot())
		}
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		quit, err := b.handle(line)
		if err != nil {
			fmt.Fprintf(b.out, "%s %v\n", ui.RenderError("Error:"), err)
		}
		if quit {
			break
		}
	}
	sess.Close()
	<-done
	return nil
}

// browser drives one listSession from typed input.
type browser struct {
	session     listSession
	resource    string
	out         io.Writer
	clearScreen bool
	setPrompt   func(string)
	departments []string

	mu sync.Mutex
}

// onType feeds every keystroke of a search line into the debounced search.
// An empty line only clears the search when it was emptied by deleting.
func (b *browser) onType(line string, key rune) {
	if key == readline.CharEnter || key == readline.CharInterrupt || strings.HasPrefix(line, ".") {
		return
	}
	if line == "" && key != readline.CharBackspace && key != readline.CharCtrlH {
		return
	}
	if line != b.session.Snapshot().Filters.Get(model.FilterSearch) {
		b.session.SetFilter(model.FilterSearch, line)
	}
}

// handle runs one submitted line. A search line is applied at once; a dot
// line is a command.
func (b *browser) handle(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ".") {
		if line != b.session.Snapshot().Filters.Get(model.FilterSearch) {
			b.session.SetFilter(model.FilterSearch, line)
		}
		b.session.Refresh()
		return false, nil
	}
	dc, err := parseDot(line)
	if err != nil {
		return false, err
	}
	return b.exec(dc)
}

type dotCommand struct {
	name string
	args []string
}

var dotCommands = []string{
	".page", ".next", ".prev", ".filter", ".sort", ".limit",
	".clear", ".refresh", ".help", ".quit", ".exit",
}

// parseDot splits a dot command and checks its arguments.
func parseDot(line string) (dotCommand, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return dotCommand{}, fmt.Errorf("empty command")
	}
	dc := dotCommand{name: strings.ToLower(parts[0]), args: parts[1:]}
	if !slices.Contains(dotCommands, dc.name) {
		return dc, fmt.Errorf("unknown command %s (type .help for commands)", dc.name)
	}

	nargs := len(dc.args)
	switch dc.name {
	case ".page", ".limit":
		if nargs != 1 {
			return dc, fmt.Errorf("usage: %s <n>", dc.name)
		}
		if n, err := strconv.Atoi(dc.args[0]); err != nil || n < 1 {
			return dc, fmt.Errorf("%s: %q is not a positive number", dc.name, dc.args[0])
		}
	case ".filter":
		if nargs != 1 {
			return dc, fmt.Errorf("usage: .filter <key>=<value>")
		}
		if _, _, ok := splitField(dc.args[0]); !ok {
			return dc, fmt.Errorf("invalid filter %q (expected key=value)", dc.args[0])
		}
	case ".sort":
		if nargs < 1 || nargs > 2 {
			return dc, fmt.Errorf("usage: .sort <field> [asc|desc]")
		}
		if nargs == 2 && !model.SortOrder(strings.ToLower(dc.args[1])).IsValid() {
			return dc, fmt.Errorf("invalid sort order %q (must be asc or desc)", dc.args[1])
		}
	default:
		if nargs != 0 {
			return dc, fmt.Errorf("%s takes no arguments", dc.name)
		}
	}
	return dc, nil
}

func (b *browser) exec(dc dotCommand) (bool, error) {
	s := b.session
	switch dc.name {
	case ".quit", ".exit":
		return true, nil
	case ".help":
		printBrowseHelp(b.out)
	case ".page":
		n, _ := strconv.Atoi(dc.args[0])
		s.SetPage(n)
	case ".next":
		if !s.NextPage() {
			return false, errors.New("already on the last page")
		}
	case ".prev":
		if !s.PrevPage() {
			return false, errors.New("already on the first page")
		}
	case ".filter":
		k, v, _ := splitField(dc.args[0])
		s.SetFilter(k, v)
	case ".sort":
		s.SetFilter(model.FilterSortBy, dc.args[0])
		if len(dc.args) == 2 {
			s.SetFilter(model.FilterSortOrder, strings.ToLower(dc.args[1]))
		}
	case ".limit":
		s.SetFilter(model.FilterLimit, dc.args[0])
	case ".clear":
		s.Clear()
	case ".refresh":
		s.Refresh()
	}
	return false, nil
}

// show renders a snapshot. While a search is in flight only the prompt
// changes; the previous rows stay on screen.
func (b *browser) show(snap listSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if snap.Status != listctl.Searching {
		b.render(snap)
	}
	if b.setPrompt != nil {
		b.setPrompt(b.prompt(snap))
	}
}

func (b *browser) render(snap listSnapshot) {
	w := b.out
	if snap.Status == listctl.InitialLoading && !snap.Loaded {
		if b.clearScreen {
			fmt.Fprint(w, "\033[H\033[2J")
		}
		fmt.Fprintln(w, ui.RenderMuted("Loading…"))
		return
	}
	if b.clearScreen {
		fmt.Fprint(w, "\033[H\033[2J")
	}
	if snap.Loaded {
		renderTable(w, snap.View.Columns, snap.View.Rows)
		fmt.Fprintln(w, ui.RenderMuted(paginationSummary(snap.View.Resource, len(snap.View.Rows), snap.View.Pagination)))
		if active := describeFilters(snap.Filters); active != "" {
			fmt.Fprintln(w, ui.RenderMuted(active))
		}
	}
	if snap.Status == listctl.Error {
		fmt.Fprintln(w, ui.RenderBanner(snap.ErrorMessage, "type "+ui.RenderCommand(".refresh")+" to retry"))
	}
}

func (b *browser) prompt(snap listSnapshot) string {
	p := b.resource
	if snap.Status == listctl.Searching {
		p += " " + ui.RenderMuted("searching…")
	}
	return p + "> "
}

func (b *browser) completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, len(dotCommands))
	for i, c := range dotCommands {
		switch c {
		case ".sort":
			items[i] = readline.PcItem(c,
				readline.PcItem(model.DefaultSortBy, readline.PcItem("asc"), readline.PcItem("desc")))
		case ".filter":
			filters := []readline.PrefixCompleterInterface{
				readline.PcItem(model.FilterStatus + "="),
				readline.PcItem(model.FilterRole + "="),
			}
			if len(b.departments) == 0 {
				filters = append(filters, readline.PcItem(model.FilterDepartment+"="))
			}
			for _, id := range b.departments {
				filters = append(filters, readline.PcItem(model.FilterDepartment+"="+id))
			}
			items[i] = readline.PcItem(c, filters...)
		default:
			items[i] = readline.PcItem(c)
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// departmentChoices lists department ids for completion. Roles that may not
// read departments get none.
func departmentChoices(ctx context.Context, c *client.HTTPClient) []string {
	if c == nil {
		return nil
	}
	f := model.DefaultFilters()
	f[model.FilterLimit] = "100"
	page, err := client.IgnoreForbidden(c.Departments().List(ctx, f))
	if err != nil || page == nil {
		logger.Debug("loading departments for completion", "err", err)
		return nil
	}
	ids := make([]string, 0, len(page.Items))
	for _, d := range page.Items {
		ids = append(ids, d.ID)
	}
	return ids
}

// describeFilters summarises the non-default filters of a list.
func describeFilters(f model.Filters) string {
	defaults := model.DefaultFilters()
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if v == "" || k == model.FilterPage || k == model.FilterLimit || defaults[k] == v {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + f[k]
	}
	return "filters: " + strings.Join(parts, " ")
}

func printBrowseHelp(w io.Writer) {
	help := `
Typing searches as you go. Enter applies the search immediately.

Commands:
  .page <n>              Go to page n
  .next / .prev          Move one page
  .filter <key>=<value>  Set a filter (empty value clears it)
  .sort <field> [order]  Sort by field, asc or desc
  .limit <n>             Rows per page
  .clear                 Reset every filter
  .refresh               Fetch the current page again
  .help                  Show this help message
  .quit / .exit          Leave the browser
`
	fmt.Fprintln(w, help)
}
