package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
)

// EncryptedStore encrypts objects with age before handing them to the
// wrapped store. Writes need recipients and reads need identities.
type EncryptedStore struct {
	inner      Store
	recipients []age.Recipient
	identities []age.Identity
}

var _ Store = (*EncryptedStore)(nil)

func NewEncryptedStore(inner Store, recipients []age.Recipient, identities []age.Identity) *EncryptedStore {
	return &EncryptedStore{inner: inner, recipients: recipients, identities: identities}
}

// LoadAgeKeys reads X25519 recipients and identities from files in the
// format written by age-keygen.
func LoadAgeKeys(recipientsFile, identityFile string) ([]age.Recipient, []age.Identity, error) {
	rf, err := os.Open(recipientsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading recipients: %w", err)
	}
	defer rf.Close()

	recipients, err := age.ParseRecipients(rf)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing recipients: %w", err)
	}

	idf, err := os.Open(identityFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading identity: %w", err)
	}
	defer idf.Close()

	identities, err := age.ParseIdentities(idf)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing identity: %w", err)
	}
	return recipients, identities, nil
}

// Put streams r through the age encrypter. size refers to the plaintext;
// the ciphertext length is unknown to the inner store.
func (s *EncryptedStore) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	if len(s.recipients) == 0 {
		return fmt.Errorf("encrypted store has no recipients")
	}

	pr, pw := io.Pipe()
	cr := &countingReader{r: r}
	done := make(chan error, 1)

	go func() {
		err := s.encrypt(pw, cr, size)
		pw.CloseWithError(err)
		done <- err
	}()

	putErr := s.inner.Put(ctx, key, pr, -1)
	pr.CloseWithError(io.ErrClosedPipe)
	encErr := <-done

	if encErr != nil {
		// The inner store may have kept a truncated object.
		if err := s.inner.Delete(ctx, key); err != nil {
			return errors.Join(encErr, fmt.Errorf("removing partial ciphertext %s: %w", key, err))
		}
		return encErr
	}
	return putErr
}

func (s *EncryptedStore) encrypt(w io.Writer, cr *countingReader, size int64) error {
	enc, err := age.Encrypt(w, s.recipients...)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(enc, cr); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := checkSize(size, cr.n); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

func (s *EncryptedStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.inner.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	dec, err := age.Decrypt(rc, s.identities...)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("creating decrypted reader: %w", err)
	}
	return decryptingReader{Reader: dec, Closer: rc}, nil
}

func (s *EncryptedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// List reports ciphertext sizes.
func (s *EncryptedStore) List(ctx context.Context, fn func(Object) error) error {
	return s.inner.List(ctx, fn)
}

type decryptingReader struct {
	io.Reader
	io.Closer
}
