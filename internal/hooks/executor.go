// Package hooks runs a user-supplied shell command when a watched list
// changes, passing the change through HRMS_* environment variables.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/hrms/internal/events"
)

// Default and max timeout for hook commands.
const (
	DefaultTimeout = 30 * time.Second
	MaxTimeout     = 300 * time.Second
)

// Result holds the output of running a single hook command.
type Result struct {
	Output string
	Err    error
}

// Execute runs command via "sh -c" with the process environment plus env.
// The timeout is clamped to MaxTimeout; zero uses DefaultTimeout.
func Execute(ctx context.Context, command string, timeout time.Duration, env map[string]string) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	hookCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(hookCtx, "sh", "-c", command) //nolint:gosec // the command comes from the user's own flag
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of sh may keep the output pipes open after a timeout kill.
	cmd.WaitDelay = time.Second

	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	err := cmd.Run()
	output := strings.TrimSpace(stdout.String())
	if output == "" {
		output = strings.TrimSpace(stderr.String())
	}
	return Result{Output: output, Err: err}
}

// ChangeEnv describes a list change for a hook:
//
//	HRMS_RESOURCE      resource name
//	HRMS_TOTAL         total records matching the list filters
//	HRMS_CHANGE_COUNT  number of change notices since the last run
//	HRMS_CHANGED_IDS   comma-separated record ids, deduplicated
//	HRMS_ACTORS        comma-separated actors, deduplicated
//	HRMS_CHANGES       the notices as a JSON array
//
// Without notices (polling) only the first three are meaningful.
func ChangeEnv(resource string, total int, changes []events.Change) map[string]string {
	var ids, actors []string
	seenID, seenActor := map[string]bool{}, map[string]bool{}
	for _, c := range changes {
		if c.ID != "" && !seenID[c.ID] {
			seenID[c.ID] = true
			ids = append(ids, c.ID)
		}
		if c.Actor != "" && !seenActor[c.Actor] {
			seenActor[c.Actor] = true
			actors = append(actors, c.Actor)
		}
	}
	if changes == nil {
		changes = []events.Change{}
	}
	data, _ := json.Marshal(changes)
	return map[string]string{
		"HRMS_RESOURCE":     resource,
		"HRMS_TOTAL":        strconv.Itoa(total),
		"HRMS_CHANGE_COUNT": strconv.Itoa(len(changes)),
		"HRMS_CHANGED_IDS":  strings.Join(ids, ","),
		"HRMS_ACTORS":       strings.Join(actors, ","),
		"HRMS_CHANGES":      string(data),
	}
}
