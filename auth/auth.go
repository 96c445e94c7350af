// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidAddress  = errors.New("invalid address format")
)

// ParseAddress parses a 0x-prefixed (or bare) 20-byte hex address.
// The zero address is rejected.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidAddress
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, ErrInvalidAddress
	}
	return addr, nil
}

// GenerateAdminKey creates an HMAC-based admin key for the election owner
// This is deterministic and verifiable
func GenerateAdminKey(owner common.Address, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write(owner.Bytes())
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key belongs to owner
func ValidateAdminKey(owner common.Address, adminKey, salt string) error {
	expected := GenerateAdminKey(owner, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}
