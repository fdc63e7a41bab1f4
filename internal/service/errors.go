package service

import "errors"

// ErrForbidden means the caller is authenticated but not a party permitted to
// perform the operation on this message.
var ErrForbidden = errors.New("caller is not permitted")

// ErrRecipientNotFound means the message recipient is not a registered user.
var ErrRecipientNotFound = errors.New("recipient does not exist")
