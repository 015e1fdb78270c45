package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/validate"
)

// sessionStore — хранилище токена (internal/session.Store).
type sessionStore interface {
	SetSession(ctx context.Context, sess domain.Session) error
	Clear(ctx context.Context) error
	Restore(ctx context.Context) (domain.Session, bool, error)
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService — вход и выход мерчанта.
type AuthService struct {
	accounts ports.AccountAPI
	sessions sessionStore
	log      ports.Logger
}

// NewAuthService — DI-конструктор.
func NewAuthService(accounts ports.AccountAPI, sessions sessionStore, log ports.Logger) *AuthService {
	return &AuthService{accounts: accounts, sessions: sessions, log: log}
}

// SignIn — проверка полей, логин на сервере, сохранение сессии.
// Токен доступен следующему запросу сразу, даже если запись на диск упала.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	in := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := validate.Struct(&in); err != nil {
		return domain.User{}, err
	}

	sess, err := s.accounts.Login(ctx, in.Email, in.Password)
	if err != nil {
		s.log.Warnf(ctx, "login failed email=%s err=%v", in.Email, err)
		return domain.User{}, fmt.Errorf("login: %w", err)
	}

	if err := s.sessions.SetSession(ctx, sess); err != nil {
		s.log.Errorf(ctx, "persist session failed user=%s err=%v", sess.User.ID, err)
		return domain.User{}, fmt.Errorf("save session: %w", err)
	}

	s.log.Infof(ctx, "signed in user=%s", sess.User.ID)
	return sess.User, nil
}

// SignOut — очищает токен в памяти и на диске.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Infof(ctx, "signed out")
	return nil
}

// Restore — сессия с прошлого запуска, если она ещё действительна.
func (s *AuthService) Restore(ctx context.Context) (*domain.User, error) {
	sess, ok, err := s.sessions.Restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	s.log.Infof(ctx, "session restored user=%s", sess.User.ID)
	return &sess.User, nil
}
