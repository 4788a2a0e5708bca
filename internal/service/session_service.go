package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Eursukkul/eventhub/internal/auth"
	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BootstrapAdminID is the fixed id of the seeded admin account.
const BootstrapAdminID = "1"

var validate = validator.New()

type SessionService interface {
	Register(ctx context.Context, name, email, secret string) (*models.Session, error)
	Login(ctx context.Context, email, secret string) (*models.Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*models.Session, error)
	Current() *models.Session
	Authorize(ctx context.Context, accountID, key string) (*models.Session, error)
	RememberEmail(ctx context.Context, email string) error
	ForgetEmail(ctx context.Context) error
	RememberedEmail(ctx context.Context) (string, error)
}

type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) error
}

// AdminAccount describes the bootstrap admin written on first start.
type AdminAccount struct {
	Email    string
	Name     string
	Password string
}

type sessionService struct {
	mu       sync.Mutex
	store    storage.Store
	hasher   SecretHasher
	admin    AdminAccount
	notifier Notifier
	outbox   outbox
	current  *models.Session
	now      func() time.Time
}

func NewSessionService(store storage.Store, hasher SecretHasher, admin AdminAccount, notifier Notifier) SessionService {
	return &sessionService{
		store:    store,
		hasher:   hasher,
		admin:    admin,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *sessionService) Register(ctx context.Context, name, email, secret string) (*models.Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateCredentials(email, secret); err != nil {
		return nil, err
	}
	if len([]rune(name)) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(secret)
	if errors.Is(err, auth.ErrSecretTooLong) {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxSecretBytes)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if findByEmail(accounts, email) != nil {
		return nil, ErrDuplicateEmail
	}

	account := models.Account{
		ID:         uuid.NewString(),
		Email:      email,
		Name:       name,
		Role:       models.RoleUser,
		SecretHash: hash,
	}
	if err := s.saveAccounts(ctx, append(accounts, account)); err != nil {
		return nil, err
	}
	s.outbox.add(TopicAccountRegistered, publicAccount(account))

	return s.startSession(ctx, account)
}

func (s *sessionService) Login(ctx context.Context, email, secret string) (*models.Session, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	account := findByEmail(accounts, email)
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(account.SecretHash, secret); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.startSession(ctx, *account)
}

func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()
	return s.endSession(ctx)
}

// Restore adopts the persisted session only while its account still exists
// with the same id and email. A stale or unreadable record is removed.
func (s *sessionService) Restore(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.unlock()

	raw, err := s.store.Get(ctx, storage.KeyCurrentSession)
	if errors.Is(err, storage.ErrNotFound) {
		s.current = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, s.endSession(ctx)
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	account := findByID(accounts, sess.ID)
	if account == nil || account.Email != sess.Email {
		return nil, s.endSession(ctx)
	}

	sess.Name = account.Name
	sess.Role = account.Role
	if sess.Key == "" {
		sess.Key = uuid.NewString()
	}
	if err := s.saveSession(ctx, &sess); err != nil {
		return nil, err
	}
	s.current = &sess
	return cloneSession(s.current), nil
}

func (s *sessionService) Current() *models.Session {
	s.mu.Lock()
	defer s.unlock()
	return cloneSession(s.current)
}

// Authorize resolves a token's claims to the active session. The key must
// match the session minted by the last login or registration.
func (s *sessionService) Authorize(ctx context.Context, accountID, key string) (*models.Session, error) {
	s.mu.Lock()
	defer s.unlock()

	if s.current == nil || s.current.ID != accountID || s.current.Key != key {
		return nil, ErrUnauthenticated
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	account := findByID(accounts, accountID)
	if account == nil || account.Email != s.current.Email {
		if err := s.endSession(ctx); err != nil {
			return nil, err
		}
		return nil, ErrUnauthenticated
	}
	return cloneSession(s.current), nil
}

func (s *sessionService) RememberEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return s.ForgetEmail(ctx)
	}
	return s.store.Set(ctx, storage.KeyRememberedEmail, []byte(email))
}

func (s *sessionService) ForgetEmail(ctx context.Context) error {
	return s.store.Delete(ctx, storage.KeyRememberedEmail)
}

func (s *sessionService) RememberedEmail(ctx context.Context) (string, error) {
	raw, err := s.store.Get(ctx, storage.KeyRememberedEmail)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// startSession replaces any active session. Callers hold s.mu.
func (s *sessionService) startSession(ctx context.Context, account models.Account) (*models.Session, error) {
	sess := &models.Session{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Role:      account.Role,
		Key:       uuid.NewString(),
		StartedAt: s.now().UTC(),
	}
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}
	s.current = sess
	s.outbox.add(TopicSessionStarted, publicSession(sess))
	return cloneSession(sess), nil
}

// endSession drops the active session and its record. Callers hold s.mu.
func (s *sessionService) endSession(ctx context.Context) error {
	prev := s.current
	s.current = nil
	if err := s.store.Delete(ctx, storage.KeyCurrentSession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if prev != nil {
		s.outbox.add(TopicSessionEnded, publicSession(prev))
	}
	return nil
}

func (s *sessionService) saveSession(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyCurrentSession, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// loadAccounts reads the account list, writing the bootstrap admin when the
// list has never been stored. Callers hold s.mu.
func (s *sessionService) loadAccounts(ctx context.Context) ([]models.Account, error) {
	raw, err := s.store.Get(ctx, storage.KeyAccounts)
	if errors.Is(err, storage.ErrNotFound) {
		admin, err := s.bootstrapAdmin()
		if err != nil {
			return nil, err
		}
		accounts := []models.Account{admin}
		if err := s.saveAccounts(ctx, accounts); err != nil {
			return nil, err
		}
		return accounts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	var accounts []models.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}

func (s *sessionService) saveAccounts(ctx context.Context, accounts []models.Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyAccounts, raw); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func (s *sessionService) bootstrapAdmin() (models.Account, error) {
	hash, err := s.hasher.Hash(s.admin.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash admin secret: %w", err)
	}
	return models.Account{
		ID:         BootstrapAdminID,
		Email:      normalizeEmail(s.admin.Email),
		Name:       s.admin.Name,
		Role:       models.RoleAdmin,
		SecretHash: hash,
	}, nil
}

func validateCredentials(email, secret string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: please enter a valid email address", ErrInvalidInput)
	}
	if len(secret) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	if len(secret) > auth.MaxSecretBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxSecretBytes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findByEmail(accounts []models.Account, email string) *models.Account {
	for i := range accounts {
		if accounts[i].Email == email {
			return &accounts[i]
		}
	}
	return nil
}

func findByID(accounts []models.Account, id string) *models.Account {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}

func cloneSession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func publicAccount(a models.Account) map[string]any {
	return map[string]any{"id": a.ID, "email": a.Email, "name": a.Name, "role": a.Role}
}

func publicSession(s *models.Session) map[string]any {
	return map[string]any{"id": s.ID, "email": s.Email, "role": s.Role, "started_at": s.StartedAt}
}

// unlock releases s.mu and then delivers the notifications queued under it.
func (s *sessionService) unlock() {
	batch := s.outbox.take()
	s.mu.Unlock()
	flush(s.notifier, batch)
}
