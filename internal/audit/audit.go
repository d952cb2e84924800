package audit

import (
	"context"
	"domainkeeper/internal/auth"
	"domainkeeper/internal/database"
	"domainkeeper/internal/types"
	"encoding/json"
	"github.com/pkg/errors"
)

const EntityDomain = "domain"

// relation keys are not part of the audited state
var relationKeys = []string{"configuration", "campaign_vertical", "webmaster", "virustotal_url_report"}

// EntityLogger records one change of one entity. Old values are captured before the
// change with SetOld and written together with the new values.
type EntityLogger struct {
	repository database.ChangeLogRepository
	entityType string
	oldValues  types.Snapshot
	oldID      uint
}

func NewEntityLogger(repository database.ChangeLogRepository, entityType string) *EntityLogger {
	return &EntityLogger{repository: repository, entityType: entityType}
}

func NewDomainLogger(repository database.ChangeLogRepository) *EntityLogger {
	return NewEntityLogger(repository, EntityDomain)
}

// Snapshot serializes the columns of d
func Snapshot(d *types.Domain) (types.Snapshot, error) {
	if d == nil {
		return nil, nil
	}

	b, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "failed to snapshot domain")
	}
	values := types.Snapshot{}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, errors.Wrap(err, "failed to snapshot domain")
	}
	for _, key := range relationKeys {
		delete(values, key)
	}
	return values, nil
}

func (l *EntityLogger) SetOld(values types.Snapshot, id uint) {
	l.oldValues = values
	l.oldID = id
}

// Write appends the change. Old values are only attached when they were captured for
// the same entity id.
func (l *EntityLogger) Write(ctx context.Context, id uint, action types.DomainLogAction, newValues types.Snapshot) error {
	entry := &types.ChangeLog{
		EntityType: l.entityType,
		EntityID:   id,
		Action:     action.String(),
		NewValues:  newValues,
	}
	if l.oldValues != nil && l.oldID == id {
		entry.OldValues = l.oldValues
	}
	if actor, ok := auth.ActorFromContext(ctx); ok {
		entry.ActorID = actor.ID()
	}

	if err := l.repository.Append(ctx, entry); err != nil {
		return errors.Wrapf(err, "failed to write %s change log", l.entityType)
	}
	return nil
}
