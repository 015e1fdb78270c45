// Пакет session — bearer-токен и профиль мерчанта: копия в памяти плюс копия на диске.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/golang-jwt/jwt/v5"
)

// Store — общий для процесса источник токена.
type Store struct {
	kv  ports.KeyValueStore
	log ports.Logger
	now func() time.Time

	mu    sync.RWMutex
	token string
	user  *domain.User
}

var _ ports.TokenSource = (*Store)(nil)

// NewStore — DI-конструктор.
func NewStore(kv ports.KeyValueStore, log ports.Logger) *Store {
	return &Store{kv: kv, log: log, now: time.Now}
}

// Token — сначала память, затем диск (с подтягиванием в память).
func (s *Store) Token(ctx context.Context) string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" {
		return token
	}

	raw, ok, err := s.kv.Get(ctx, domain.TokenKey)
	if err != nil {
		s.log.Warnf(ctx, "read persisted token failed err=%v", err)
		return ""
	}
	if !ok {
		return ""
	}
	token = strings.TrimSpace(string(raw))

	s.mu.Lock()
	if s.token == "" {
		s.token = token
	}
	s.mu.Unlock()
	return token
}

// User — профиль из последней сессии (nil, если не вошли).
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetSession — память обновляется сразу, затем токен и профиль пишутся на диск.
func (s *Store) SetSession(ctx context.Context, sess domain.Session) error {
	token := strings.TrimSpace(sess.Token)
	if token == "" {
		return fmt.Errorf("empty token: %w", domain.ErrInvalidInput)
	}
	user := sess.User

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, domain.TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.kv.Set(ctx, domain.UserKey, rawUser); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// Clear — выход: чистим память и оба ключа на диске.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	return errors.Join(
		s.kv.Delete(ctx, domain.TokenKey),
		s.kv.Delete(ctx, domain.UserKey),
	)
}

// Restore — восстановление сессии при старте.
// Сессия есть, только если на диске оба ключа и токен не истёк; иначе всё очищается.
func (s *Store) Restore(ctx context.Context) (domain.Session, bool, error) {
	rawToken, okToken, err := s.kv.Get(ctx, domain.TokenKey)
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("read token: %w", err)
	}
	rawUser, okUser, err := s.kv.Get(ctx, domain.UserKey)
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("read user: %w", err)
	}

	token := strings.TrimSpace(string(rawToken))
	var user domain.User
	valid := okToken && okUser && token != ""
	if valid {
		if err := json.Unmarshal(rawUser, &user); err != nil {
			s.log.Warnf(ctx, "persisted user is corrupt err=%v", err)
			valid = false
		}
	}
	if valid {
		if exp, ok := ExpiresAt(token); ok && !exp.After(s.now()) {
			s.log.Infof(ctx, "persisted token expired at=%s", exp.Format(time.RFC3339))
			valid = false
		}
	}

	if !valid {
		if err := s.Clear(ctx); err != nil {
			return domain.Session{}, false, fmt.Errorf("clear session: %w", err)
		}
		return domain.Session{}, false, nil
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return domain.Session{Token: token, User: user}, true, nil
}

// ExpiresAt — exp из JWT без проверки подписи (токен проверяет сервер).
// Для непрозрачных токенов и токенов без exp возвращает false.
func ExpiresAt(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
