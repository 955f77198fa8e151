package workflow

import (
	"fmt"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/models"
)

type Action string

const (
	ViewApplication    Action = "view"
	RecordDecision     Action = "record-decision"
	DeleteApplication  Action = "delete"
	EditApplication    Action = "edit"
	ForwardApplication Action = "forward"
)

// Rejection messages.
const (
	MsgDifferentLender    = "Application was made to a different lender"
	MsgDifferentUser      = "Application was made by a different user"
	MsgLenderCannotDelete = "You're not authorised to delete this application"
	MsgLenderOnlyDecision = "You have to be a lender to approve applications"
	MsgLenderCannotEdit   = "You're not authorised to edit applications"
	MsgNoLenderRecord     = "Lender record not found, please contact our support system"
)

// Role is the closed set of actors. Only the types in this file implement it.
type Role interface {
	role()
}

type AdminRole struct{}

type LenderRole struct {
	LenderID int64
}

type ApplicantRole struct {
	UserID int64
}

func (AdminRole) role()     {}
func (LenderRole) role()    {}
func (ApplicantRole) role() {}

// RoleOf maps a session user to its role. A lender user without a lender record has no
// usable role.
func RoleOf(u models.CurrentUser) (Role, error) {
	switch u.Kind {
	case models.KindAdmin:
		return AdminRole{}, nil
	case models.KindLender:
		if u.LenderID == 0 {
			return nil, apperrors.NewNotFoundError(MsgNoLenderRecord)
		}
		return LenderRole{LenderID: u.LenderID}, nil
	case models.KindApplicant:
		return ApplicantRole{UserID: u.ID}, nil
	default:
		return nil, apperrors.NewInternalError(fmt.Errorf("unknown user kind %q", u.Kind))
	}
}

// Access is what an authorization decision needs to know about an application.
type Access struct {
	ApplicantID int64
	LenderIDs   []int64
}

func (a Access) routedTo(lenderID int64) bool {
	for _, id := range a.LenderIDs {
		if id == lenderID {
			return true
		}
	}
	return false
}

// Authorize returns nil when actor may perform action on the application described by
// access, otherwise a 401/403 StandardError.
func Authorize(actor Role, action Action, access Access) error {
	switch r := actor.(type) {
	case AdminRole:
		if action == RecordDecision {
			return apperrors.NewForbiddenError(MsgLenderOnlyDecision)
		}
		return nil

	case LenderRole:
		switch action {
		case ViewApplication, RecordDecision:
			if !access.routedTo(r.LenderID) {
				return apperrors.NewUnauthorisedError(MsgDifferentLender)
			}
			return nil
		case DeleteApplication:
			return apperrors.NewForbiddenError(MsgLenderCannotDelete)
		case EditApplication:
			return apperrors.NewUnauthorisedError(MsgLenderCannotEdit)
		case ForwardApplication:
			return apperrors.NewForbiddenError(apperrors.MsgUnauthorised)
		}

	case ApplicantRole:
		switch action {
		case ViewApplication, DeleteApplication, EditApplication:
			if access.ApplicantID != r.UserID {
				return apperrors.NewForbiddenError(MsgDifferentUser)
			}
			return nil
		case RecordDecision:
			return apperrors.NewForbiddenError(MsgLenderOnlyDecision)
		case ForwardApplication:
			return apperrors.NewForbiddenError(apperrors.MsgUnauthorised)
		}
	}

	return apperrors.NewInternalError(fmt.Errorf("unhandled authorization: role %T action %q", actor, action))
}

// RequireKind fails with 401 when no user is signed in and 403 when the user's kind is
// not one of kinds.
func RequireKind(u *models.CurrentUser, kinds ...models.UserKind) error {
	if u == nil {
		return apperrors.NewUnauthorisedError("")
	}
	for _, k := range kinds {
		if u.Kind == k {
			return nil
		}
	}
	return apperrors.NewForbiddenError("")
}
