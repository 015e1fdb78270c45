// Пакет settings — пользовательские настройки оповещений в локальном хранилище.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/validate"
)

// Store — настройки как один JSON-блоб под ключом domain.SettingsKey.
type Store struct {
	kv  ports.KeyValueStore
	log ports.Logger
}

// NewStore — DI-конструктор.
func NewStore(kv ports.KeyValueStore, log ports.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Load — нет ключа: значения по умолчанию; сохранённые поля накладываются поверх них.
// Испорченный блоб даёт значения по умолчанию и предупреждение; ошибка только от хранилища.
func (s *Store) Load(ctx context.Context) (domain.Settings, error) {
	out := domain.DefaultSettings()

	raw, ok, err := s.kv.Get(ctx, domain.SettingsKey)
	if err != nil {
		return out, fmt.Errorf("read settings: %w", err)
	}
	if !ok {
		return out, nil
	}

	// декодируем поверх дефолтов: отсутствующие поля остаются как есть
	merged := out
	if err := json.Unmarshal(raw, &merged); err != nil {
		s.log.Warnf(ctx, "settings blob is corrupt, using defaults err=%v", err)
		return out, nil
	}
	if merged.SoundChoice < 1 || merged.SoundChoice > domain.SoundChoices {
		merged.SoundChoice = out.SoundChoice
	}
	return merged, nil
}

// Save — проверяет и пишет настройки одним блобом.
func (s *Store) Save(ctx context.Context, in domain.Settings) error {
	if err := validate.Struct(&in); err != nil {
		return err
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.kv.Set(ctx, domain.SettingsKey, raw); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
