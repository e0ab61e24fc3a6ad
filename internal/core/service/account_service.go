package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/port"
)

type AccountService struct {
	store  port.AccountStore
	logger *zap.Logger
	cost   int
}

func NewAccountService(store port.AccountStore, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{store: store, logger: logger, cost: bcrypt.DefaultCost}
}

type SignupRequest struct {
	Username string
	Password string
	Address  string
	CellNo   string
}

func (s *AccountService) RegisterCustomer(ctx context.Context, req SignupRequest) (*domain.Customer, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if err := s.ensureUsernameFree(ctx, req.Username); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	c := domain.Customer{
		Username:     req.Username,
		PasswordHash: hash,
		Address:      req.Address,
		CellNo:       req.CellNo,
	}
	id, err := s.store.CreateCustomer(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	c.ID = id
	s.logger.Info("customer registered", zap.Int64("customer_id", id), zap.String("username", c.Username))
	return &c, nil
}

func (s *AccountService) CreateStaffAccount(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	u := domain.User{Username: username, PasswordHash: hash, Role: domain.RoleStaff}
	id, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.ID = id
	return &u, nil
}

// Authenticate checks customers first, then staff accounts.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	c, err := s.store.FindCustomerByUsername(ctx, username)
	switch {
	case err == nil:
		if !matches(c.PasswordHash, password) {
			return nil, domain.ErrInvalidCredentials
		}
		return &domain.Principal{ID: c.ID, Username: c.Username, Role: domain.RoleCustomer}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("find customer: %w", err)
	}

	u, err := s.store.FindUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !matches(u.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Principal{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (s *AccountService) ensureUsernameFree(ctx context.Context, username string) error {
	exists, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists {
		return domain.ErrUsernameTaken
	}
	return nil
}

func (s *AccountService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
