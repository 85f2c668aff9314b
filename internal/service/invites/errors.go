package invites

import "errors"

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteRevoked  = errors.New("invite has been revoked")
	ErrInviteExpired  = errors.New("invite has expired")
	ErrInviteUsed     = errors.New("invite has already been claimed")
	ErrEmailMismatch  = errors.New("invite is restricted to another email")
)
