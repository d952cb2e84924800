package types

import "time"

type (
	// Snapshot is the serialized state of an entity at one point in time
	Snapshot map[string]interface{}

	// ChangeLog is an append-only audit entry keyed by entity id and action
	ChangeLog struct {
		ID         uint      `json:"id" gorm:"primaryKey"`
		EntityType string    `json:"entity_type" gorm:"size:64;index:idx_change_logs_entity"`
		EntityID   uint      `json:"entity_id" gorm:"index:idx_change_logs_entity"`
		Action     string    `json:"action" gorm:"size:32"`
		OldValues  Snapshot  `json:"old_values" gorm:"type:text;serializer:json"`
		NewValues  Snapshot  `json:"new_values" gorm:"type:text;serializer:json"`
		ActorID    *uint     `json:"actor_id"`
		CreatedAt  time.Time `json:"created_at"`
	}
)

func (ChangeLog) TableName() string {
	return "change_logs"
}
