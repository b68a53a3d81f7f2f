// Package authz decides allow/deny for every content and engagement
// mutation. Permissions live in a capability table built once at process
// start; no call path switches on role names directly.
package authz

import "errors"

// ErrForbidden is raised on authorization denial. Callers surface it as a
// rejection response, never as a generic failure.
var ErrForbidden = errors.New("forbidden")

type Action string

const (
	ActionRead           Action = "read"
	ActionComment        Action = "comment"
	ActionCreateNovel    Action = "create_novel"
	ActionEditOwnNovel   Action = "edit_own_novel"
	ActionDeleteOwnNovel Action = "delete_own_novel"

	// Moderation-tier actions.
	ActionEditAnyNovel     Action = "edit_any_novel"
	ActionDeleteAnyNovel   Action = "delete_any_novel"
	ActionModerateComments Action = "moderate_comments"

	// admin_only actions.
	ActionFeatureNovel     Action = "feature_novel"
	ActionManageCategories Action = "manage_categories"

	// owner_only actions.
	ActionManageUsers       Action = "manage_users"
	ActionTransferOwnership Action = "transfer_ownership"
)

// tier tags group actions the way the permission model describes them:
// general actions, moderation actions, admin_only and owner_only actions.
type tier int

const (
	tierGeneral tier = iota
	tierModeration
	tierAdminOnly
	tierOwnerOnly
)

var actionTiers = map[Action]tier{
	ActionRead:           tierGeneral,
	ActionComment:        tierGeneral,
	ActionCreateNovel:    tierGeneral,
	ActionEditOwnNovel:   tierGeneral,
	ActionDeleteOwnNovel: tierGeneral,

	ActionEditAnyNovel:     tierModeration,
	ActionDeleteAnyNovel:   tierModeration,
	ActionModerateComments: tierModeration,

	ActionFeatureNovel:     tierAdminOnly,
	ActionManageCategories: tierAdminOnly,

	ActionManageUsers:       tierOwnerOnly,
	ActionTransferOwnership: tierOwnerOnly,
}

// ownershipGated actions require the actor to be the author or translator
// of record unless the role short-circuits ownership checks.
var ownershipGated = map[Action]bool{
	ActionEditOwnNovel:   true,
	ActionDeleteOwnNovel: true,
}

// publisherActions is what author and translator roles may do.
var publisherActions = []Action{
	ActionRead,
	ActionComment,
	ActionCreateNovel,
	ActionEditOwnNovel,
	ActionDeleteOwnNovel,
}

// readerActions is what the default role may do.
var readerActions = []Action{
	ActionRead,
	ActionComment,
}

type capability struct {
	actions map[Action]bool
	// skipOwnership short-circuits ownership checks for moderation roles.
	skipOwnership bool
}

type Authorizer struct {
	caps map[string]capability
}

// NewAuthorizer builds the role-capability table. Unknown roles have no
// entry and are denied everything.
func NewAuthorizer() *Authorizer {
	caps := map[string]capability{
		"owner":      {actions: actionsUpTo(tierOwnerOnly), skipOwnership: true},
		"admin":      {actions: actionsUpTo(tierAdminOnly), skipOwnership: true},
		"moderator":  {actions: actionsUpTo(tierModeration), skipOwnership: true},
		"author":     {actions: actionSet(publisherActions)},
		"translator": {actions: actionSet(publisherActions)},
		"reader":     {actions: actionSet(readerActions)},
	}
	return &Authorizer{caps: caps}
}

func actionsUpTo(max tier) map[Action]bool {
	set := make(map[Action]bool, len(actionTiers))
	for action, t := range actionTiers {
		if t <= max {
			set[action] = true
		}
	}
	return set
}

func actionSet(actions []Action) map[Action]bool {
	set := make(map[Action]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}
	return set
}

// Can reports whether a role may perform an action. owned indicates the
// actor is the author or translator of record for the resource; it is
// ignored for actions that are not ownership-gated and for roles that
// short-circuit ownership.
func (a *Authorizer) Can(role string, action Action, owned bool) bool {
	cap, ok := a.caps[role]
	if !ok {
		return false
	}
	if !cap.actions[action] {
		return false
	}
	if ownershipGated[action] && !cap.skipOwnership && !owned {
		return false
	}
	return true
}

// Authorize is Can with the deny mapped to ErrForbidden.
func (a *Authorizer) Authorize(role string, action Action, owned bool) error {
	if !a.Can(role, action, owned) {
		return ErrForbidden
	}
	return nil
}
