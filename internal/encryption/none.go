package encryption

import (
	"fmt"
	"io"

	"fo-go/internal/organizer"
)

// NoneEncryptor is used when backup encryption is disabled. It reports
// itself unconfigured so backups are written in plaintext, and refuses the
// operations that only make sense with keys.
type NoneEncryptor struct{}

var _ organizer.Encryptor = (*NoneEncryptor)(nil)

func NewNoneEncryptor() *NoneEncryptor {
	return &NoneEncryptor{}
}

func (e *NoneEncryptor) Setup(passphrase string) error {
	return fmt.Errorf("encryption is disabled")
}

func (e *NoneEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	return fmt.Errorf("encryption is disabled")
}

func (e *NoneEncryptor) Unlock(passphrase string) (organizer.DecryptionContext, error) {
	return nil, fmt.Errorf("encryption is disabled")
}

func (e *NoneEncryptor) IsConfigured() bool {
	return false
}
