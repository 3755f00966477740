package hooks

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/hrms/internal/events"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		command string
		env     map[string]string
		want    string
		wantErr bool
	}{
		{name: "stdout", command: "echo hello", want: "hello"},
		{name: "env overlay", command: `echo "$HRMS_RESOURCE"`, env: map[string]string{"HRMS_RESOURCE": "leaves"}, want: "leaves"},
		{name: "stderr when stdout empty", command: "echo oops >&2; exit 3", want: "oops", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Execute(context.Background(), tt.command, 0, tt.env)
			if (res.Err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", res.Err, tt.wantErr)
			}
			if res.Output != tt.want {
				t.Errorf("output = %q, want %q", res.Output, tt.want)
			}
		})
	}
}

func TestExecute_Timeout(t *testing.T) {
	start := time.Now()
	res := Execute(context.Background(), "sleep 5", 100*time.Millisecond, nil)
	if res.Err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 3*time.Second {
		t.Errorf("timeout not enforced: took %v", time.Since(start))
	}
}

func TestChangeEnv(t *testing.T) {
	env := ChangeEnv("designations", 12, []events.Change{
		{Resource: "designations", Action: "updated", ID: "d1", Actor: "ann"},
		{Resource: "designations", Action: "updated", ID: "d1", Actor: "bo"},
		{Resource: "designations", Action: "created", ID: "d2", Actor: "ann"},
	})
	want := map[string]string{
		"HRMS_RESOURCE":     "designations",
		"HRMS_TOTAL":        "12",
		"HRMS_CHANGE_COUNT": "3",
		"HRMS_CHANGED_IDS":  "d1,d2",
		"HRMS_ACTORS":       "ann,bo",
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("%s = %q, want %q", k, env[k], v)
		}
	}
	var changes []events.Change
	if err := json.Unmarshal([]byte(env["HRMS_CHANGES"]), &changes); err != nil || len(changes) != 3 {
		t.Errorf("HRMS_CHANGES = %s (%v)", env["HRMS_CHANGES"], err)
	}

	empty := ChangeEnv("leaves", 0, nil)
	if empty["HRMS_CHANGES"] != "[]" || empty["HRMS_CHANGED_IDS"] != "" || !strings.HasPrefix(empty["HRMS_CHANGE_COUNT"], "0") {
		t.Errorf("empty env = %v", empty)
	}
}
