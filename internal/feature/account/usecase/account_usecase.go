package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"account_backend/internal/feature/account/domain"
	"account_backend/internal/feature/account/domain/entity"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/password"
)

// dummyHash is compared against when the login id is unknown so that both
// failure paths spend the same bcrypt time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Attribute length limits, in characters.
const (
	maxLoginIDLen  = 15
	maxNicknameLen = 15
	maxEmailLen    = 50
	maxPhoneLen    = 13
)

// AccountRepository persists accounts. Each call runs in its own transaction.
// The interface is defined by the consumer; adapters provides the GORM implementation.
type AccountRepository interface {
	// FindBy returns the account whose attribute equals value, or ErrAccountNotFound.
	FindBy(ctx context.Context, attr entity.Attribute, value string) (*entity.Account, error)

	// CheckUniqueness returns a *ConflictError for the first taken unique attribute of candidate.
	CheckUniqueness(ctx context.Context, candidate *entity.Account) error

	// Insert stores a new account. It returns *ConflictError or ErrUniversityNotFound on constraint violations.
	Insert(ctx context.Context, a *entity.Account) error

	// UpdateFields applies a partial update, or returns ErrAccountNotFound.
	UpdateFields(ctx context.Context, id uuid.UUID, changes entity.AccountChanges) error

	// Delete removes an account, or returns ErrAccountNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// TokenService issues and validates access tokens.
type TokenService interface {
	Issue(accountID uuid.UUID) (jwtmw.Token, error)
	Decode(tokenStr string) (uuid.UUID, error)
	AssertOwner(tokenStr string, expected uuid.UUID) error
}

// UniversityDirectory answers whether an affiliation reference exists.
type UniversityDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ImageStore stores profile image bytes and hands back opaque references.
type ImageStore interface {
	Store(ctx context.Context, data []byte) (string, error)
	Load(ctx context.Context, ref string) ([]byte, error)
	DefaultReference() string
}

// RegisterInput carries the fields of a registration request.
// UniversityRef is the affiliation identity key as text; empty means none.
type RegisterInput struct {
	LoginID       string
	Password      string
	Nickname      string
	Email         string
	Phone         string
	UniversityRef string
	SchoolID      string
}

// Profile is the public view of an account.
// ProfileImage is always a usable reference; the default image stands in for none.
type Profile struct {
	ID           uuid.UUID
	LoginID      string
	Nickname     string
	Email        string
	Phone        string
	SchoolID     string
	ProfileImage string
	UniversityID *uuid.UUID
	SignupAt     time.Time
	LastLoginAt  *time.Time
}

// ProfileImage is an image reference together with its bytes.
type ProfileImage struct {
	Reference string
	Data      []byte
}

// accountUsecase orchestrates registration, authentication and profile operations.
type accountUsecase struct {
	accounts  AccountRepository
	hasher    PasswordHasher
	tokens    TokenService
	directory UniversityDirectory
	images    ImageStore
	now       func() time.Time
}

// NewAccountUsecase wires the account orchestrator.
func NewAccountUsecase(
	accounts AccountRepository,
	hasher PasswordHasher,
	tokens TokenService,
	directory UniversityDirectory,
	images ImageStore,
) *accountUsecase {
	return &accountUsecase{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		directory: directory,
		images:    images,
		now:       time.Now,
	}
}

// Register creates a new account.
func (u *accountUsecase) Register(ctx context.Context, in RegisterInput) domain.Outcome {
	if o := validateRegister(in); !o.Ok() {
		return o
	}

	var universityID *uuid.UUID
	if in.UniversityRef != "" {
		id, err := uuid.Parse(in.UniversityRef)
		if err != nil {
			return domain.Fail(domain.StatusInvalidInput, "invalid university reference")
		}
		universityID = &id
	}

	candidate := &entity.Account{
		LoginID:      in.LoginID,
		Nickname:     in.Nickname,
		Email:        in.Email,
		Phone:        in.Phone,
		SchoolID:     in.SchoolID,
		UniversityID: universityID,
	}
	if err := u.accounts.CheckUniqueness(ctx, candidate); err != nil {
		return u.writeOutcome("register", err)
	}

	if universityID != nil {
		ok, err := u.directory.Exists(ctx, *universityID)
		if err != nil {
			return u.internal("register", err)
		}
		if !ok {
			return domain.Fail(domain.StatusNotFound, "university not found")
		}
	}

	digest, err := u.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return domain.Fail(domain.StatusInvalidInput, "password is too long")
		}
		return u.internal("register", err)
	}

	candidate.ID = uuid.New()
	candidate.PasswordHash = digest
	candidate.SignupAt = u.now().UTC()
	if err := u.accounts.Insert(ctx, candidate); err != nil {
		return u.writeOutcome("register", err)
	}

	slog.Info("account registered", "account_id", candidate.ID)
	return domain.OK()
}

// Login verifies the credentials, records the login time and issues a token.
// An unknown login id and a wrong password are reported identically.
func (u *accountUsecase) Login(ctx context.Context, loginID, plaintext string) (jwtmw.Token, domain.Outcome) {
	acc, o := u.authenticate(ctx, "login", loginID, plaintext)
	if !o.Ok() {
		return jwtmw.Token{}, o
	}

	now := u.now().UTC()
	if err := u.accounts.UpdateFields(ctx, acc.ID, entity.AccountChanges{LastLoginAt: &now}); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return jwtmw.Token{}, authFailed()
		}
		return jwtmw.Token{}, u.internal("login", err)
	}

	token, err := u.tokens.Issue(acc.ID)
	if err != nil {
		return jwtmw.Token{}, u.internal("login", err)
	}
	return token, domain.OK()
}

// Signout deletes the account after re-checking its password.
func (u *accountUsecase) Signout(ctx context.Context, loginID, plaintext string) domain.Outcome {
	acc, o := u.authenticate(ctx, "signout", loginID, plaintext)
	if !o.Ok() {
		return o
	}

	if err := u.accounts.Delete(ctx, acc.ID); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return domain.Fail(domain.StatusNotFound, "account not found")
		}
		return u.internal("signout", err)
	}

	slog.Info("account deleted", "account_id", acc.ID)
	return domain.OK()
}

// ForgotID returns the login id registered with email.
func (u *accountUsecase) ForgotID(ctx context.Context, email string) (string, domain.Outcome) {
	if email == "" {
		return "", domain.Fail(domain.StatusInvalidInput, "email is required")
	}
	acc, err := u.accounts.FindBy(ctx, entity.AttributeEmail, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", domain.Fail(domain.StatusNotFound, "no account is registered with this email")
		}
		return "", u.internal("forgot_id", err)
	}
	return acc.LoginID, domain.OK()
}

// ForgotPassword replaces the password of the account with loginID.
func (u *accountUsecase) ForgotPassword(ctx context.Context, loginID, newPassword string) domain.Outcome {
	if loginID == "" || newPassword == "" {
		return domain.Fail(domain.StatusInvalidInput, "ID and password are required")
	}

	acc, err := u.accounts.FindBy(ctx, entity.AttributeLoginID, loginID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return domain.Fail(domain.StatusNotFound, "account not found")
		}
		return u.internal("forgot_password", err)
	}

	digest, err := u.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return domain.Fail(domain.StatusInvalidInput, "password is too long")
		}
		return u.internal("forgot_password", err)
	}

	if err := u.accounts.UpdateFields(ctx, acc.ID, entity.AccountChanges{PasswordHash: &digest}); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return domain.Fail(domain.StatusNotFound, "account not found")
		}
		return u.internal("forgot_password", err)
	}
	return domain.OK()
}

// CheckDuplicate reports Success when value is free for attr and Conflict when it is taken.
func (u *accountUsecase) CheckDuplicate(ctx context.Context, attr entity.Attribute, value string) domain.Outcome {
	if !attr.IsUnique() {
		return domain.Fail(domain.StatusInvalidInput, "unknown attribute %q", string(attr))
	}
	if value == "" {
		return domain.Fail(domain.StatusInvalidInput, "%s is required", attr.Label())
	}

	if err := u.accounts.CheckUniqueness(ctx, candidateFor(attr, value)); err != nil {
		return u.writeOutcome("check_duplicate", err)
	}
	return domain.OK()
}

// GetProfile returns the public profile of the token's account.
func (u *accountUsecase) GetProfile(ctx context.Context, tokenStr string) (Profile, domain.Outcome) {
	acc, o := u.accountForToken(ctx, "get_profile", tokenStr)
	if !o.Ok() {
		return Profile{}, o
	}
	return Profile{
		ID:           acc.ID,
		LoginID:      acc.LoginID,
		Nickname:     acc.Nickname,
		Email:        acc.Email,
		Phone:        acc.Phone,
		SchoolID:     acc.SchoolID,
		ProfileImage: u.imageRef(acc),
		UniversityID: acc.UniversityID,
		SignupAt:     acc.SignupAt,
		LastLoginAt:  acc.LastLoginAt,
	}, domain.OK()
}

// GetProfileImage returns the profile image of the token's account, or the default image.
func (u *accountUsecase) GetProfileImage(ctx context.Context, tokenStr string) (ProfileImage, domain.Outcome) {
	acc, o := u.accountForToken(ctx, "get_profile_image", tokenStr)
	if !o.Ok() {
		return ProfileImage{}, o
	}

	ref := u.imageRef(acc)
	data, err := u.images.Load(ctx, ref)
	if err != nil {
		return ProfileImage{}, u.internal("get_profile_image", err)
	}
	return ProfileImage{Reference: ref, Data: data}, domain.OK()
}

// UpdateProfileImage stores data as the profile image of accountID and returns the new reference.
// Empty data resets the account to the default image.
// The token must belong to accountID, and the account is looked up before any bytes are stored.
func (u *accountUsecase) UpdateProfileImage(ctx context.Context, tokenStr string, accountID uuid.UUID, data []byte) (string, domain.Outcome) {
	if err := u.tokens.AssertOwner(tokenStr, accountID); err != nil {
		return "", u.tokenOutcome("update_profile_image", err)
	}
	if _, err := u.accounts.FindBy(ctx, entity.AttributeAccountID, accountID.String()); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", domain.Fail(domain.StatusNotFound, "account not found")
		}
		return "", u.internal("update_profile_image", err)
	}

	changes := entity.AccountChanges{ClearProfileImage: len(data) == 0}
	ref := u.images.DefaultReference()
	if len(data) > 0 {
		stored, err := u.images.Store(ctx, data)
		if err != nil {
			return "", u.internal("update_profile_image", err)
		}
		ref = stored
		changes.ProfileImage = &stored
	}

	if err := u.accounts.UpdateFields(ctx, accountID, changes); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", domain.Fail(domain.StatusNotFound, "account not found")
		}
		return "", u.internal("update_profile_image", err)
	}
	return ref, domain.OK()
}

// authenticate checks loginID and plaintext. It always runs one bcrypt comparison.
func (u *accountUsecase) authenticate(ctx context.Context, op, loginID, plaintext string) (*entity.Account, domain.Outcome) {
	acc, err := u.accounts.FindBy(ctx, entity.AttributeLoginID, loginID)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, u.internal(op, err)
	}

	digest := dummyHash
	if acc != nil {
		digest = acc.PasswordHash
	}
	ok, err := u.hasher.Verify(plaintext, digest)
	if err != nil && acc != nil {
		return nil, u.internal(op, err)
	}
	if acc == nil || !ok {
		return nil, authFailed()
	}
	return acc, domain.OK()
}

func (u *accountUsecase) accountForToken(ctx context.Context, op, tokenStr string) (*entity.Account, domain.Outcome) {
	id, err := u.tokens.Decode(tokenStr)
	if err != nil {
		return nil, u.tokenOutcome(op, err)
	}
	acc, err := u.accounts.FindBy(ctx, entity.AttributeAccountID, id.String())
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, domain.Fail(domain.StatusNotFound, "account not found")
		}
		return nil, u.internal(op, err)
	}
	return acc, domain.OK()
}

func (u *accountUsecase) imageRef(acc *entity.Account) string {
	if acc.ProfileImage == nil || *acc.ProfileImage == "" {
		return u.images.DefaultReference()
	}
	return *acc.ProfileImage
}

// writeOutcome maps store write errors to outcomes.
func (u *accountUsecase) writeOutcome(op string, err error) domain.Outcome {
	var ce *ConflictError
	switch {
	case errors.As(err, &ce):
		return domain.Fail(domain.StatusConflict, "%s", ce.Error())
	case errors.Is(err, ErrUniversityNotFound):
		return domain.Fail(domain.StatusNotFound, "university not found")
	default:
		return u.internal(op, err)
	}
}

func (u *accountUsecase) tokenOutcome(op string, err error) domain.Outcome {
	switch {
	case errors.Is(err, jwtmw.ErrTokenExpired):
		return domain.Fail(domain.StatusSessionExpired, "session expired")
	case errors.Is(err, jwtmw.ErrTokenMalformed):
		return domain.Fail(domain.StatusInvalidInput, "malformed token")
	case errors.Is(err, jwtmw.ErrSignatureInvalid):
		return domain.Fail(domain.StatusAuthenticationFailed, "invalid token")
	case errors.Is(err, jwtmw.ErrOwnerMismatch):
		return domain.Fail(domain.StatusForbidden, "token does not belong to this account")
	default:
		return u.internal(op, err)
	}
}

func (u *accountUsecase) internal(op string, err error) domain.Outcome {
	slog.Error("account operation failed", "op", op, "error", err)
	return domain.Internal()
}

func authFailed() domain.Outcome {
	return domain.Fail(domain.StatusAuthenticationFailed, "invalid ID or password")
}

func candidateFor(attr entity.Attribute, value string) *entity.Account {
	a := &entity.Account{}
	switch attr {
	case entity.AttributeLoginID:
		a.LoginID = value
	case entity.AttributeNickname:
		a.Nickname = value
	case entity.AttributeEmail:
		a.Email = value
	case entity.AttributePhone:
		a.Phone = value
	}
	return a
}

func validateRegister(in RegisterInput) domain.Outcome {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"ID", in.LoginID, maxLoginIDLen},
		{"nickname", in.Nickname, maxNicknameLen},
		{"email", in.Email, maxEmailLen},
		{"phone number", in.Phone, maxPhoneLen},
	}
	for _, f := range fields {
		if f.value == "" {
			return domain.Fail(domain.StatusInvalidInput, "%s is required", f.name)
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return domain.Fail(domain.StatusInvalidInput, "%s must be at most %d characters", f.name, f.max)
		}
	}
	if in.Password == "" {
		return domain.Fail(domain.StatusInvalidInput, "password is required")
	}
	return domain.OK()
}
