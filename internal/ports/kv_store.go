package ports

import "context"

// KeyValueStore — локальное хранилище блобов по ключу (аналог AsyncStorage).
type KeyValueStore interface {
	// Get — (value, true, nil) при наличии ключа, (nil, false, nil) при отсутствии.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete — отсутствие ключа не ошибка.
	Delete(ctx context.Context, key string) error
}
