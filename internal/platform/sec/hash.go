// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns plain-text passwords into salted digests and back.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Verify(plainTextPassword, digest string) bool
}

// BcryptHasher implements [PasswordHasher] with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or [bcrypt.DefaultCost] when cost is zero.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash salts and hashes a plain-text password. Two calls on the same input
// produce different digests.
func (hasher *BcryptHasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text password with a digest produced by [BcryptHasher.Hash].
// Malformed digests verify as false.
func (hasher *BcryptHasher) Verify(plainTextPassword, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plainTextPassword)) == nil
}
