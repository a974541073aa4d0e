package entities

import "time"

// Action names a decision recorded in the audit log, namespaced by entity type.
type Action string

const (
	ActionClientMatchEmail Action = "client.match_email"
	ActionClientMatchName  Action = "client.match_name"
	ActionClientCreate     Action = "client.create"
	ActionCaseMatch        Action = "case.match"
	ActionCaseCreate       Action = "case.create"
	ActionDocCreate        Action = "doc.create"
	ActionDocSkipDuplicate Action = "doc.skip_duplicate"
)

// Actions lists every known action in stage order.
var Actions = []Action{
	ActionClientMatchEmail,
	ActionClientMatchName,
	ActionClientCreate,
	ActionCaseMatch,
	ActionCaseCreate,
	ActionDocCreate,
	ActionDocSkipDuplicate,
}

// IsCreate reports whether the action recorded the creation of a new record.
func (a Action) IsCreate() bool {
	return a == ActionClientCreate || a == ActionCaseCreate || a == ActionDocCreate
}

// Event is one immutable audit record. Seq is the log position and the
// only ordering that matters; Timestamp never decreases along Seq.
type Event struct {
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	EntityID  string    `json:"entity_id"`
	Details   string    `json:"details"`
}
