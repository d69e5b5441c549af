package usecase

import "github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"

// Resource names a protected entity class.
type Resource string

const (
	ResourceArticle    Resource = "article"
	ResourceProject    Resource = "project"
	ResourceDocument   Resource = "document"
	ResourceEvent      Resource = "event"
	ResourceImage      Resource = "image"
	ResourceCotisation Resource = "cotisation"
	ResourceUser       Resource = "user"
	ResourcePayment    Resource = "payment"
)

// Action names an operation on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type accessRule struct {
	// adminOnly restricts the action to administrators regardless of ownership.
	adminOnly bool
	// ownerAllowed lets the resource owner act; admins always may.
	ownerAllowed bool
}

// policies is the single authorization table consulted for every mutating
// content operation. Read access is public or member-wide and is enforced
// at the routing layer instead.
var policies = map[Resource]map[Action]accessRule{
	ResourceArticle: {
		ActionCreate: {ownerAllowed: true},
		ActionUpdate: {ownerAllowed: true},
		ActionDelete: {ownerAllowed: true},
	},
	ResourceProject: {
		ActionCreate: {ownerAllowed: true},
		ActionUpdate: {ownerAllowed: true},
		ActionDelete: {ownerAllowed: true},
	},
	ResourceDocument: {
		ActionCreate: {ownerAllowed: true},
		ActionUpdate: {ownerAllowed: true},
		ActionDelete: {ownerAllowed: true},
	},
	ResourceEvent: {
		ActionCreate: {ownerAllowed: true},
		ActionUpdate: {ownerAllowed: true},
		ActionDelete: {ownerAllowed: true},
	},
	ResourceImage: {
		ActionCreate: {ownerAllowed: true},
		ActionUpdate: {ownerAllowed: true},
		ActionDelete: {ownerAllowed: true},
	},
	ResourceCotisation: {
		ActionCreate: {adminOnly: true},
		ActionUpdate: {adminOnly: true},
		ActionDelete: {adminOnly: true},
	},
	ResourceUser: {
		ActionCreate: {adminOnly: true},
		ActionUpdate: {adminOnly: true},
		ActionDelete: {adminOnly: true},
	},
	ResourcePayment: {
		ActionUpdate: {adminOnly: true},
	},
}

// Authorize reports whether the actor may perform the action. ownerID is the
// user id owning the target resource; pass the actor's own id for creates.
func Authorize(actor domain.Account, resource Resource, action Action, ownerID string) error {
	rule, ok := policies[resource][action]
	if !ok {
		return ErrForbidden
	}

	if actor.IsAdmin() {
		return nil
	}
	if rule.adminOnly {
		return ErrForbidden
	}
	if rule.ownerAllowed && ownerID == actor.ID {
		return nil
	}

	return ErrForbidden
}
