package services

import (
	"growthflow-server/models"
	"growthflow-server/types"
)

// Action identifies the operation checked against a single object.
type Action int

const (
	ActionRead Action = iota
	ActionUpdate
	ActionPatch
	ActionDelete
)

// Decision is the typed outcome of an authorization check: allowed, or
// denied with the reason surfaced to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Err converts a denial into a PermissionError, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &types.PermissionError{Reason: d.Reason}
}

// CanCreateFeedback restricts feedback creation to managers.
func CanCreateFeedback(u models.User) Decision {
	if u.IsSuperuser || u.IsManager() {
		return allow()
	}
	return deny("only managers can create feedback")
}

// DecideFeedback checks a single-object action against a feedback
// record. For ActionPatch, patchFields carries the top-level keys of the
// partial-update body: the receiving employee may patch only when the
// body contains exactly the is_acknowledged field. The record's
// Employee must be preloaded for read checks.
func DecideFeedback(u models.User, f models.Feedback, action Action, patchFields []string) Decision {
	if u.IsSuperuser {
		return allow()
	}
	switch action {
	case ActionRead:
		if f.ManagerID == u.ID || f.EmployeeID == u.ID {
			return allow()
		}
		if u.IsManager() && f.Employee.ManagerID != nil && *f.Employee.ManagerID == u.ID {
			return allow()
		}
		return deny("you do not have access to this feedback")
	case ActionUpdate, ActionDelete:
		if u.IsManager() && f.ManagerID == u.ID {
			return allow()
		}
		return deny("only the authoring manager can modify this feedback")
	case ActionPatch:
		if u.IsManager() && f.ManagerID == u.ID {
			return allow()
		}
		if u.IsEmployee() && f.EmployeeID == u.ID {
			if len(patchFields) == 1 && patchFields[0] == "is_acknowledged" {
				return allow()
			}
			return deny("employees may only acknowledge feedback")
		}
		return deny("you cannot modify this feedback")
	}
	return deny("unsupported action")
}

// CanAcknowledgeFeedback restricts the acknowledge transition to the
// receiving employee.
func CanAcknowledgeFeedback(u models.User, f models.Feedback) Decision {
	if u.IsSuperuser {
		return allow()
	}
	if u.IsEmployee() && f.EmployeeID == u.ID {
		return allow()
	}
	return deny("only the receiving employee can acknowledge feedback")
}

// DecideComment checks a single-object action against a comment. Reads
// are open to anyone who reached the row; mutations are author-only.
func DecideComment(u models.User, c models.Comment, action Action) Decision {
	if u.IsSuperuser || action == ActionRead {
		return allow()
	}
	if c.AuthorID == u.ID {
		return allow()
	}
	return deny("only the comment author can modify this comment")
}

// CanCreateFeedbackRequest restricts request creation to employees.
func CanCreateFeedbackRequest(u models.User) Decision {
	if u.IsSuperuser || u.IsEmployee() {
		return allow()
	}
	return deny("only employees can request feedback")
}

// DecideFeedbackRequest checks a single-object action against a
// feedback request. The requester may do anything to their own request;
// the assigned target manager may update but not delete. Reads are
// allowed for any principal whose visibility set includes the row, which
// resolution through VisibleFeedbackRequests has already proven.
func DecideFeedbackRequest(u models.User, r models.FeedbackRequest, action Action) Decision {
	if u.IsSuperuser || action == ActionRead {
		return allow()
	}
	if r.RequesterID == u.ID {
		return allow()
	}
	isTarget := u.IsManager() && r.TargetManagerID != nil && *r.TargetManagerID == u.ID
	if isTarget && (action == ActionUpdate || action == ActionPatch) {
		return allow()
	}
	if isTarget {
		return deny("the target manager cannot delete a feedback request")
	}
	return deny("you cannot modify this feedback request")
}

// CanMarkFulfilled restricts the fulfillment transition to the assigned
// target manager.
func CanMarkFulfilled(u models.User, r models.FeedbackRequest) Decision {
	if u.IsSuperuser {
		return allow()
	}
	if u.IsManager() && r.TargetManagerID != nil && *r.TargetManagerID == u.ID {
		return allow()
	}
	return deny("you do not have permission to mark this request as fulfilled")
}

// CanCreatePeerFeedback allows any authenticated principal to give peer
// feedback; self-feedback is rejected at validation time, not here.
func CanCreatePeerFeedback(u models.User) Decision {
	return allow()
}

// DecidePeerFeedback checks a single-object action against a peer
// feedback entry. Reads are open to the giver, the receiver, and any
// manager (managers can audit peer feedback outside their reporting
// line); mutations are giver-only.
func DecidePeerFeedback(u models.User, p models.PeerFeedback, action Action) Decision {
	if u.IsSuperuser {
		return allow()
	}
	if action == ActionRead {
		if p.GiverID == u.ID || p.ReceiverID == u.ID || u.IsManager() {
			return allow()
		}
		return deny("you do not have access to this peer feedback")
	}
	if p.GiverID == u.ID {
		return allow()
	}
	return deny("only the giver can modify peer feedback")
}

// CanViewManagerSummary restricts the dashboard aggregates to managers.
func CanViewManagerSummary(u models.User) Decision {
	if u.IsSuperuser || u.IsManager() {
		return allow()
	}
	return deny("only managers can view feedback summaries")
}
