package testutil

import (
	"fo-go/internal/encryption"
	"fo-go/internal/organizer"
)

// NewTestEncryptor creates a deterministic encryptor for testing.
func NewTestEncryptor() organizer.Encryptor {
	return encryption.NewTestEncryptor()
}
