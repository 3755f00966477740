package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alfredjeanlab/hrms/internal/events"
	"github.com/alfredjeanlab/hrms/internal/hooks"
	"github.com/alfredjeanlab/hrms/internal/listctl"
	"github.com/alfredjeanlab/hrms/internal/presence"
	"github.com/alfredjeanlab/hrms/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <resource>",
	Short: "Keep a list up to date as records change",
	Long: `Print a list and reprint it whenever it changes.

With HRMS_NATS_URL set, change notices published by other clients trigger a
refresh; otherwise the list is polled every --interval.

--exec runs a shell command after each change with HRMS_RESOURCE,
HRMS_TOTAL, HRMS_CHANGE_COUNT, HRMS_CHANGED_IDS, HRMS_ACTORS and
HRMS_CHANGES set.`,
	Example: `  hrms watch leaves --status pending
  hrms watch designations --exec 'notify-send "$HRMS_CHANGE_COUNT designation changes"'`,
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
		interval, err := watchInterval(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		once, _ := flags.GetBool("once")
		hook, _ := flags.GetString("exec")
		hookTimeout, _ := flags.GetDuration("exec-timeout")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sess := r.session(hrClient, f, listctl.WithDebounce(0), listctl.WithLogger(logger))
		defer sess.Close()

		w := &watcher{
			session:     sess,
			out:         cmd.OutOrStdout(),
			errOut:      cmd.ErrOrStderr(),
			mode:        currentOutput(),
			editors:     presence.New(0),
			hook:        hook,
			hookTimeout: hookTimeout,
		}
		sess.Start(ctx)
		if once {
			return w.run(ctx, true)
		}

		if cfg.NATSURL != "" {
			cancel, err := watchNATS(ctx, cfg.NATSURL, r.resourceName(), sess, w.observe)
			if err != nil {
				return err
			}
			defer cancel()
		} else {
			go events.Poll(ctx, interval, sess.Refresh)
		}
		return w.run(ctx, false)
	},
}

func init() {
	addListFlags(watchCmd, nil)
	watchCmd.Flags().Duration("interval", 5*time.Second, "poll interval without NATS (default $HRMS_WATCH_INTERVAL)")
	watchCmd.Flags().Bool("once", false, "print the list once and exit")
	watchCmd.Flags().String("exec", "", "shell command to run after each change")
	watchCmd.Flags().Duration("exec-timeout", hooks.DefaultTimeout, "time limit for --exec")
}

// watchInterval returns --interval, or HRMS_WATCH_INTERVAL when the flag
// is unset. The poll ticker needs a positive period.
func watchInterval(cmd *cobra.Command) (time.Duration, error) {
	interval, _ := cmd.Flags().GetDuration("interval")
	if !cmd.Flags().Changed("interval") {
		interval = cfg.WatchInterval
	}
	if interval <= 0 {
		return 0, fmt.Errorf("invalid --interval %s (must be positive)", interval)
	}
	return interval, nil
}

// watchNATS refreshes sess on change notices for resource, coalescing
// bursts, and immediately after a reconnect. Each batch is passed to
// observe before the refresh is issued.
func watchNATS(ctx context.Context, url, resource string, sess listSession, observe func([]events.Change)) (func(), error) {
	feed, err := events.Dial(url,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
			sess.Refresh()
		}),
	)
	if err != nil {
		return nil, err
	}
	stream, err := feed.Watch(resource)
	if err != nil {
		_ = feed.Close()
		return nil, fmt.Errorf("subscribing to changes: %w", err)
	}
	go events.Coalesce(ctx, stream.C, events.DefaultCoalesce, func(changes []events.Change) {
		logger.Debug("records changed", "resource", resource, "count", len(changes))
		observe(changes)
		sess.Refresh()
	})
	return func() {
		stream.Stop()
		_ = feed.Close()
	}, nil
}

// editorWindow bounds the "recent editors" footer.
const editorWindow = 15 * time.Minute

// watcher prints a session each time its settled content changes.
type watcher struct {
	session     listSession
	out         io.Writer
	errOut      io.Writer
	mode        outputMode
	editors     *presence.Tracker
	hook        string
	hookTimeout time.Duration

	last    string
	printed bool

	mu      sync.Mutex
	pending []events.Change
}

// observe records a batch of change notices until the next print.
func (w *watcher) observe(changes []events.Change) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, changes...)
	if w.editors != nil {
		for _, c := range changes {
			w.editors.Record(c)
		}
	}
}

func (w *watcher) takePending() []events.Change {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = nil
	return out
}

// run prints until ctx is done, or after the first settled state when once
// is set. A failed initial load is returned as an error.
func (w *watcher) run(ctx context.Context, once bool) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.session.Updates():
			if !ok {
				return nil
			}
		}
		snap := w.session.Snapshot()
		if snap.Status == listctl.InitialLoading || snap.Status == listctl.Searching {
			continue
		}
		if snap.Status == listctl.Error && !snap.Loaded {
			return fmt.Errorf("loading %s: %s", snap.View.Resource, snap.ErrorMessage)
		}
		if err := w.print(ctx, snap); err != nil {
			return err
		}
		if once {
			return nil
		}
	}
}

func (w *watcher) print(ctx context.Context, snap listSnapshot) error {
	if snap.Status == listctl.Error {
		fmt.Fprintln(w.out, ui.RenderBanner(snap.ErrorMessage, "retrying on the next change"))
		return nil
	}
	sig := watchSignature(snap)
	if sig == w.last {
		return nil
	}
	w.last = sig
	if w.mode == outputTable {
		fmt.Fprintln(w.out, ui.RenderMuted(time.Now().Format("15:04:05")))
	}
	if err := printList(w.out, w.mode, snap.View); err != nil {
		return err
	}
	if w.mode == outputTable && w.editors != nil {
		if line := editorsLine(w.editors.Roster(editorWindow)); line != "" {
			fmt.Fprintln(w.out, ui.RenderMuted(line))
		}
	}

	changes := w.takePending()
	if w.printed && w.hook != "" {
		w.runHook(ctx, snap, changes)
	}
	w.printed = true
	return nil
}

// runHook reports a failing hook without stopping the watch.
func (w *watcher) runHook(ctx context.Context, snap listSnapshot, changes []events.Change) {
	total := len(snap.View.Rows)
	if p := snap.View.Pagination; p != nil {
		total = p.TotalCount
	}
	res := hooks.Execute(ctx, w.hook, w.hookTimeout, hooks.ChangeEnv(snap.View.Resource, total, changes))
	if res.Output != "" {
		fmt.Fprintln(w.errOut, res.Output)
	}
	if res.Err != nil {
		logger.Warn("watch hook failed", "command", w.hook, "err", res.Err)
	}
}

func watchSignature(snap listSnapshot) string {
	var sb strings.Builder
	for _, r := range snap.View.Rows {
		sb.WriteString(strings.Join(r, "\x1f"))
		sb.WriteByte('\n')
	}
	if p := snap.View.Pagination; p != nil {
		fmt.Fprintf(&sb, "%d/%d/%d", p.CurrentPage, p.TotalPages, p.TotalCount)
	}
	return sb.String()
}

func editorsLine(roster []presence.Entry) string {
	if len(roster) == 0 {
		return ""
	}
	parts := make([]string, len(roster))
	for i, e := range roster {
		ago := time.Duration(e.IdleSecs * float64(time.Second)).Round(time.Second)
		parts[i] = fmt.Sprintf("%s (%s %s, %s ago)", e.Actor, e.LastAction, e.LastID, ago)
	}
	return "recent editors: " + strings.Join(parts, ", ")
}
