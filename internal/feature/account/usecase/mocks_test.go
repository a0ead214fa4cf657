package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"account_backend/internal/feature/account/domain/entity"
	jwtmw "account_backend/internal/platform/jwt"
)

// memoryAccounts is an in-memory AccountRepository used for workflow tests.
// Err fields force the matching method to fail.
type memoryAccounts struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]entity.Account
	known    map[uuid.UUID]bool
	FindErr  error
	WriteErr error
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byID: map[uuid.UUID]entity.Account{}, known: map[uuid.UUID]bool{}}
}

func (m *memoryAccounts) FindBy(_ context.Context, attr entity.Attribute, value string) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if _, ok := attr.Column(); !ok {
		return nil, ErrUnknownAttribute
	}
	for _, a := range m.byID {
		if a.Value(attr) == value {
			a := a
			return &a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *memoryAccounts) CheckUniqueness(_ context.Context, c *entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkLocked(c)
}

func (m *memoryAccounts) checkLocked(c *entity.Account) error {
	for _, attr := range entity.UniquenessOrder {
		v := c.Value(attr)
		if v == "" {
			continue
		}
		for _, a := range m.byID {
			if a.Value(attr) == v {
				return &ConflictError{Attribute: attr, Value: v}
			}
		}
	}
	return nil
}

func (m *memoryAccounts) Insert(_ context.Context, a *entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if err := m.checkLocked(a); err != nil {
		return err
	}
	if a.UniversityID != nil && !m.known[*a.UniversityID] {
		return ErrUniversityNotFound
	}
	m.byID[a.ID] = *a
	return nil
}

func (m *memoryAccounts) UpdateFields(_ context.Context, id uuid.UUID, ch entity.AccountChanges) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	a, ok := m.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	if ch.PasswordHash != nil {
		a.PasswordHash = *ch.PasswordHash
	}
	if ch.LastLoginAt != nil {
		t := *ch.LastLoginAt
		a.LastLoginAt = &t
	}
	if ch.ClearProfileImage {
		a.ProfileImage = nil
	} else if ch.ProfileImage != nil {
		ref := *ch.ProfileImage
		a.ProfileImage = &ref
	}
	m.byID[id] = a
	return nil
}

func (m *memoryAccounts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if _, ok := m.byID[id]; !ok {
		return ErrAccountNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryAccounts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// mockDirectory is a UniversityDirectory backed by a set of known ids.
type mockDirectory struct {
	known     map[uuid.UUID]bool
	ExistsErr error
	calls     int
}

func (m *mockDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	m.calls++
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.known[id], nil
}

// mockImages is an in-memory ImageStore.
type mockImages struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	StoreErr error
	LoadErr  error
}

const defaultImageRef = "default_user.png"

func newMockImages() *mockImages {
	return &mockImages{blobs: map[string][]byte{defaultImageRef: []byte("default")}}
}

func (m *mockImages) Store(_ context.Context, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return "", m.StoreErr
	}
	ref := uuid.NewString() + ".png"
	m.blobs[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (m *mockImages) Load(_ context.Context, ref string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	data, ok := m.blobs[ref]
	if !ok {
		return nil, errors.New("image not found")
	}
	return data, nil
}

func (m *mockImages) DefaultReference() string { return defaultImageRef }

// stored returns the number of images held, including the default.
func (m *mockImages) stored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

// mockTokens is a TokenService with overridable behaviour.
// Without overrides it delegates to a real issuer.
type mockTokens struct {
	issuer          *jwtmw.Issuer
	IssueFunc       func(uuid.UUID) (jwtmw.Token, error)
	DecodeFunc      func(string) (uuid.UUID, error)
	AssertOwnerFunc func(string, uuid.UUID) error
}

func (m *mockTokens) Issue(id uuid.UUID) (jwtmw.Token, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(id)
	}
	return m.issuer.Issue(id)
}

func (m *mockTokens) Decode(s string) (uuid.UUID, error) {
	if m.DecodeFunc != nil {
		return m.DecodeFunc(s)
	}
	return m.issuer.Decode(s)
}

func (m *mockTokens) AssertOwner(s string, id uuid.UUID) error {
	if m.AssertOwnerFunc != nil {
		return m.AssertOwnerFunc(s, id)
	}
	return m.issuer.AssertOwner(s, id)
}

// mockHasher wraps a PasswordHasher and can force failures.
type mockHasher struct {
	inner     PasswordHasher
	HashErr   error
	VerifyErr error
	verified  []string
}

func (m *mockHasher) Hash(p string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return m.inner.Hash(p)
}

func (m *mockHasher) Verify(p, digest string) (bool, error) {
	m.verified = append(m.verified, digest)
	if m.VerifyErr != nil {
		return false, m.VerifyErr
	}
	return m.inner.Verify(p, digest)
}
