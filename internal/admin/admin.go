// Package admin implements the single-administrator lifecycle: a one-time setup
// while no account exists, and password login that issues bearer tokens.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/garnizeh/outreach/internal/auth"
	"github.com/garnizeh/outreach/pkg/models"
	"github.com/garnizeh/outreach/pkg/repository"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrAlreadyInitialized = errors.New("admin already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
)

// Session is the result of a successful login.
type Session struct {
	Token    string
	Username string
}

type Service struct {
	accounts   repository.AccountRepo
	issuer     *auth.TokenIssuer
	bcryptCost int
	logger     *slog.Logger

	// compared against when the username is unknown so both failure paths cost a bcrypt run
	dummyHash string
}

func NewService(accounts repository.AccountRepo, issuer *auth.TokenIssuer, bcryptCost int, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	dummy, err := auth.HashPassword("dummy-password-for-timing", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &Service{
		accounts:   accounts,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		logger:     logger,
		dummyHash:  dummy,
	}, nil
}

// Setup creates the first administrator. It succeeds exactly once: after any
// account exists every call fails with ErrAlreadyInitialized.
func (s *Service) Setup(ctx context.Context, username, password string) error {
	n, err := s.accounts.CountAccounts(ctx)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 {
		return ErrAlreadyInitialized
	}

	if strings.TrimSpace(username) == "" || password == "" {
		return ErrMissingCredentials
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	// the count above is advisory; the conditional insert is the real guard
	_, created, err := s.accounts.CreateFirstAccount(ctx, &models.Account{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyInitialized
		}
		return fmt.Errorf("create account: %w", err)
	}
	if !created {
		return ErrAlreadyInitialized
	}

	s.logger.Info("admin account created", slog.String("username", username))
	return nil
}

// Login verifies the credentials and issues a bearer token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	acct, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return Session{}, fmt.Errorf("lookup account: %w", err)
	}

	if acct == nil {
		auth.VerifyPassword(password, s.dummyHash)
		return Session{}, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, acct.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(acct.ID)
	if err != nil {
		return Session{}, err
	}

	return Session{Token: token, Username: acct.Username}, nil
}

// CreateAccount adds an administrator regardless of setup state. It backs the
// create_admin maintenance tool.
func (s *Service) CreateAccount(ctx context.Context, username, password string) (int64, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return 0, ErrMissingCredentials
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, err
	}

	id, err := s.accounts.CreateAccount(ctx, &models.Account{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("create account: %w", err)
	}

	return id, nil
}
