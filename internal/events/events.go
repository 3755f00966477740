// Package events carries record-change notices over NATS so list views can
// refresh when another client mutates a resource.
//
// Subjects are "hrms.<resource>.<action>", e.g. "hrms.designations.updated".
package events

import (
	"encoding/json"
	"strings"
	"time"
)

// SubjectPrefix is the first token of every change subject.
const SubjectPrefix = "hrms"

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Topic returns the subject for one action on resource.
func Topic(resource, action string) string {
	return SubjectPrefix + "." + resource + "." + action
}

// ResourceTopic returns the wildcard subject matching every action on
// resource, or every resource when resource is empty.
func ResourceTopic(resource string) string {
	if resource == "" {
		return SubjectPrefix + ".>"
	}
	return SubjectPrefix + "." + resource + ".>"
}

// Change is the payload of a change notice.
type Change struct {
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	ID       string    `json:"id,omitempty"`
	Actor    string    `json:"actor,omitempty"`
	At       time.Time `json:"at"`
}

// Message is one delivery from a subscription.
type Message struct {
	Subject string
	Data    []byte
}

// Change decodes the payload, falling back to the subject tokens for
// resource and action when the payload omits them or is not JSON.
func (m Message) Change() Change {
	var c Change
	_ = json.Unmarshal(m.Data, &c)
	parts := strings.Split(m.Subject, ".")
	if len(parts) >= 3 && parts[0] == SubjectPrefix {
		if c.Resource == "" {
			c.Resource = parts[1]
		}
		if c.Action == "" {
			c.Action = parts[2]
		}
	}
	return c
}
