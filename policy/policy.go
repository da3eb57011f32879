// Package policy holds the single authorization decision function for
// grievance operations. Every mutating controller calls Authorize exactly once
// before touching the store, so role and ownership rules live in one place.
package policy

import "github.com/griev-ease/api-go/constants"

type Operation int

const (
	OpCreate Operation = iota
	OpRead
	OpEdit
	OpDelete
	OpToggleUpvote
	OpChangeStatus
	OpViewStats
)

// Deny reasons. Role and ownership denials are authorization failures;
// lifecycle denials are state conflicts (the actor is permitted the operation
// class, the resource state forbids it).
const (
	ReasonRole          = "role"
	ReasonNotOwner      = "not owner"
	ReasonNotPending    = "not pending"
	ReasonAlreadySolved = "already solved"
)

type Decision struct {
	Allowed bool
	Reason  string
}

// StateConflict reports whether a denial is a lifecycle conflict rather than
// an authorization failure.
func (d Decision) StateConflict() bool {
	return d.Reason == ReasonNotPending || d.Reason == ReasonAlreadySolved
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Authorize decides whether an actor may perform op on a resource. ownerID and
// status are ignored for operations that do not involve a resource (create,
// read, stats). Rules are evaluated in precedence order: role gate, ownership
// gate, lifecycle gate.
func Authorize(role, actorID, ownerID, status string, op Operation) Decision {
	switch op {
	case OpChangeStatus, OpViewStats:
		if role != constants.RoleGovernmentOfficial {
			return deny(ReasonRole)
		}
		return allow()

	case OpEdit:
		if actorID != ownerID {
			return deny(ReasonNotOwner)
		}
		if status == constants.StatusSolved {
			return deny(ReasonAlreadySolved)
		}
		return allow()

	case OpDelete:
		if actorID != ownerID {
			return deny(ReasonNotOwner)
		}
		if status != constants.StatusPending {
			return deny(ReasonNotPending)
		}
		return allow()

	default: // create, read, search, upvote toggle
		return allow()
	}
}
