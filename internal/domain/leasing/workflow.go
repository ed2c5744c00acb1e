package leasing

import (
	"fmt"

	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
)

// Action is a reviewer's intent on an application
type Action string

const (
	ActionAgentAccept            Action = "agent-accept"
	ActionAgentReject            Action = "agent-reject"
	ActionRequestBackgroundCheck Action = "request-background-check"
	ActionLandlordApprove        Action = "landlord-approve"
	ActionLandlordReject         Action = "landlord-reject"
	ActionFinalApprove           Action = "final-approve"
	ActionFinalReject            Action = "final-reject"
	ActionReset                  Action = "reset"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	_, ok := actionRoles[a]
	return ok || a == ActionReset
}

// Effect names the follow-up work a transition requires
type Effect string

const (
	EffectNone                 Effect = ""
	EffectAcceptApplication    Effect = "accept_application"
	EffectRejectApplication    Effect = "reject_application"
	EffectStartBackgroundCheck Effect = "start_background_check"
	EffectPassBackgroundCheck  Effect = "pass_background_check"
	EffectFailBackgroundCheck  Effect = "fail_background_check"
	EffectLandlordApprove      Effect = "landlord_approve"
	EffectLandlordReject       Effect = "landlord_reject"
	EffectCreateLease          Effect = "create_lease"
	EffectFinalReject          Effect = "final_reject"
	EffectReset                Effect = "reset"
)

// Transition is the outcome of applying an action to a status.
// Changed is false when the action is a no-op for the current status.
type Transition struct {
	From    ApplicationStatus
	To      ApplicationStatus
	Step    int
	Effect  Effect
	Changed bool
}

// actionRoles is the role allowed to perform each non-reset action
var actionRoles = map[Action]identity.Role{
	ActionAgentAccept:            identity.RoleAgent,
	ActionAgentReject:            identity.RoleAgent,
	ActionRequestBackgroundCheck: identity.RoleAgent,
	ActionLandlordApprove:        identity.RoleLandlord,
	ActionLandlordReject:         identity.RoleLandlord,
	ActionFinalApprove:           identity.RoleAgent,
	ActionFinalReject:            identity.RoleAgent,
}

type edge struct {
	to     ApplicationStatus
	effect Effect
}

// transitions maps action -> current status -> outcome. Missing entries are no-ops.
var transitions = map[Action]map[ApplicationStatus]edge{
	ActionAgentAccept: {
		StatusUndetermined:           {StatusAccepted, EffectAcceptApplication},
		StatusBackgroundCheckPending: {StatusBackgroundCheckPassed, EffectPassBackgroundCheck},
	},
	ActionAgentReject: {
		StatusUndetermined:           {StatusRejected, EffectRejectApplication},
		StatusBackgroundCheckPending: {StatusBackgroundCheckFailed, EffectFailBackgroundCheck},
	},
	ActionRequestBackgroundCheck: {
		StatusUndetermined: {StatusBackgroundCheckPending, EffectStartBackgroundCheck},
	},
	ActionLandlordApprove: {
		StatusAccepted:              {StatusLandlordApproved, EffectLandlordApprove},
		StatusBackgroundCheckPassed: {StatusLandlordApproved, EffectLandlordApprove},
	},
	ActionLandlordReject: {
		StatusAccepted:              {StatusLandlordRejected, EffectLandlordReject},
		StatusBackgroundCheckPassed: {StatusLandlordRejected, EffectLandlordReject},
	},
	ActionFinalApprove: {
		StatusLandlordApproved: {StatusFinalApproved, EffectCreateLease},
	},
	ActionFinalReject: {
		StatusLandlordApproved: {StatusFinalRejected, EffectFinalReject},
	},
}

// resettable is the set of statuses each role may send back to UNDETERMINED
var resettable = map[identity.Role]map[ApplicationStatus]bool{
	identity.RoleAgent: {
		StatusRejected:              true,
		StatusBackgroundCheckFailed: true,
		StatusLandlordRejected:      true,
		StatusFinalRejected:         true,
	},
	identity.RoleLandlord: {
		StatusLandlordApproved: true,
		StatusLandlordRejected: true,
	},
}

// CanReset reports whether role may reset an application in status
func CanReset(role identity.Role, status ApplicationStatus) bool {
	return resettable[role][status]
}

// ResettableStatuses returns the statuses role may reset, in review order
func ResettableStatuses(role identity.Role) []ApplicationStatus {
	out := make([]ApplicationStatus, 0)
	for _, s := range AllStatuses {
		if resettable[role][s] {
			out = append(out, s)
		}
	}
	return out
}

// Decide computes the transition for action performed by role on current.
// Accept, reject and the other review actions are no-ops (Changed=false) outside
// the statuses they apply to. Reset fails with RESET_NOT_ALLOWED instead.
func Decide(current ApplicationStatus, action Action, role identity.Role) (Transition, error) {
	if !current.IsValid() {
		return Transition{}, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Unknown application status: %s", current))
	}
	noop := Transition{From: current, To: current, Step: current.Step()}

	if action == ActionReset {
		if !CanReset(role, current) {
			return Transition{}, shared.NewDomainError("RESET_NOT_ALLOWED",
				fmt.Sprintf("Role %s cannot reset an application in %s status", role, current))
		}
		return Transition{
			From:    current,
			To:      StatusUndetermined,
			Step:    StatusUndetermined.Step(),
			Effect:  EffectReset,
			Changed: true,
		}, nil
	}

	allowed, ok := actionRoles[action]
	if !ok {
		return Transition{}, shared.NewDomainError("INVALID_ACTION", fmt.Sprintf("Unknown action: %s", action))
	}
	if role != allowed {
		return Transition{}, shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Action %s requires the %s role", action, allowed))
	}

	e, ok := transitions[action][current]
	if !ok {
		return noop, nil
	}
	return Transition{
		From:    current,
		To:      e.to,
		Step:    e.to.Step(),
		Effect:  e.effect,
		Changed: true,
	}, nil
}
