// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "errors"

var (
	ErrUnauthorized           = errors.New("caller is not authorized")
	ErrInvalidPhaseTransition = errors.New("operation not allowed in current phase")
	ErrAlreadyRegistered      = errors.New("voter is already registered")
	ErrAlreadyVoted           = errors.New("voter has already voted")
	ErrInvalidProposal        = errors.New("proposal does not exist")
	ErrNoVoteCast             = errors.New("voter has not voted")
	ErrDescriptionTooShort    = errors.New("proposal description is too short")
	ErrNoProposals            = errors.New("no proposal has been registered")
	ErrInvalidIdentity        = errors.New("invalid identity")
	ErrInvalidSnapshot        = errors.New("invalid election snapshot")
)
