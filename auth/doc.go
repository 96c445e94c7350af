// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides caller identity parsing and owner key utilities.

# Addresses

Every caller is identified by a 20-byte hex address:

	addr, err := auth.ParseAddress("0x00000000000000000000000000000000000000aa")

Malformed and zero addresses return ErrInvalidAddress. Addresses are not
authenticated here; whoever sends the header is trusted to be that caller.

# Admin Keys

Owner-only operations additionally require an admin key, an HMAC-SHA256 of
the owner address:

	adminKey := auth.GenerateAdminKey(owner, salt)
	err := auth.ValidateAdminKey(owner, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same owner and salt always produce the same key, so nothing needs to be
stored.
*/
package auth
