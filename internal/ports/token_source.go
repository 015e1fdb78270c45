package ports

import "context"

// TokenSource — текущий bearer-токен; пустая строка — запрос уходит без авторизации.
type TokenSource interface {
	Token(ctx context.Context) string
}
