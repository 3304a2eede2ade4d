package habit

import (
	"github.com/d-medvedev/habits-api/internal/user"
)

type Operation string

const (
	OpListOwn    Operation = "list_own"
	OpListPublic Operation = "list_public"
	OpCreate     Operation = "create"
	OpRetrieve   Operation = "retrieve"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
)

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decide resolves the (actor, habit, operation) triple. actor is nil for
// anonymous requests; h is nil for operations that target no single record.
// Missing credentials on operations that need them are reported separately by
// the auth middleware, so a nil actor here only reaches the ownership rules.
func Decide(actor *user.User, h *Habit, op Operation) Decision {
	switch op {
	case OpListPublic:
		return allow()
	case OpListOwn, OpCreate:
		if actor == nil {
			return deny("authentication required")
		}
		return allow()
	case OpRetrieve:
		if h.IsPublic || isOwner(actor, h) || actor.IsElevated() {
			return allow()
		}
		return deny("not permitted to view this habit")
	case OpUpdate:
		if isOwner(actor, h) || actor.IsElevated() {
			return allow()
		}
		return deny("not permitted to edit this habit")
	case OpDelete:
		if (actor != nil && actor.IsSuperuser) || isOwner(actor, h) {
			return allow()
		}
		return deny("not permitted to delete this habit")
	default:
		return deny("unknown operation")
	}
}

func isOwner(actor *user.User, h *Habit) bool {
	return actor != nil && h.OwnerID != nil && *h.OwnerID == actor.ID
}
