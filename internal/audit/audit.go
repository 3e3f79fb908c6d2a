package audit

import (
	"context"
	"encoding/json"
	"log"

	"github.com/alexbart/Church-management/internal/database"
)

const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

type Entry struct {
	Action      string
	Resource    string
	ResourceID  string
	Changes     any
	PerformedBy string
}

// Write records an audit entry. Failures are logged and swallowed so an
// audit outage never fails the originating request.
func Write(ctx context.Context, db database.Querier, e Entry) {
	if db == nil {
		return
	}

	var changes any
	if e.Changes != nil {
		buf, err := json.Marshal(e.Changes)
		if err == nil {
			changes = json.RawMessage(buf)
		}
	}

	var resourceID any
	if e.ResourceID != "" {
		resourceID = e.ResourceID
	}

	_, err := db.Exec(ctx, `
INSERT INTO audit_logs (action, resource, resource_id, changes, performed_by)
VALUES ($1, $2, $3, $4, $5)
`, e.Action, e.Resource, resourceID, changes, e.PerformedBy)
	if err != nil {
		log.Printf("audit: write %s %s failed: %v", e.Action, e.Resource, err)
	}
}
