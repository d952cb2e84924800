package database

import (
	"domainkeeper/internal/types"
	"gorm.io/gorm"
)

// Visibility decides which domain rows a query may see.
// Request handlers build it from the caller with ForActor; background jobs act on
// behalf of nobody and must ask for System explicitly.
type Visibility struct {
	system      bool
	withTrashed bool
	actor       types.Actor
}

// System sees every row regardless of ownership. Soft deleted rows still need WithTrashed.
func System() Visibility {
	return Visibility{system: true}
}

func ForActor(actor types.Actor) Visibility {
	return Visibility{actor: actor}
}

func (v Visibility) WithTrashed() Visibility {
	v.withTrashed = true
	return v
}

func (v Visibility) IsSystem() bool {
	return v.system
}

// apply restricts q to the rows visible to v. root must be a condition-free handle,
// it is used to build the ownership subquery.
func (v Visibility) apply(q, root *gorm.DB) *gorm.DB {
	if v.withTrashed {
		q = q.Unscoped()
	}

	if v.system || v.actor.IsAdmin() {
		return q
	}

	switch v.actor.Role {
	case types.RoleManager:
		webmasters := root.Model(&types.User{}).Select("id").Where("manager_id = ?", v.actor.UserID)
		return q.Where("(domains.user_id IS NULL OR domains.user_id IN (?))", webmasters)
	default:
		return q.Where("domains.user_id = ?", v.actor.UserID)
	}
}
