package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports/mocks"
	"github.com/Gunvolt24/merchant_dash/internal/settings"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stored []byte
		found  bool
		want   domain.Settings
	}{
		{"missing_key", nil, false, domain.DefaultSettings()},
		{"full_blob", []byte(`{"soundEnabled":false,"vibrationEnabled":false,"soundChoice":3}`), true,
			domain.Settings{SoundEnabled: false, VibrationEnabled: false, SoundChoice: 3}},
		{"partial_blob_merged", []byte(`{"soundEnabled":false}`), true,
			domain.Settings{SoundEnabled: false, VibrationEnabled: true, SoundChoice: 1}},
		{"choice_out_of_range", []byte(`{"soundChoice":9}`), true, domain.DefaultSettings()},
		{"corrupt_blob", []byte(`{soundEnabled`), true, domain.DefaultSettings()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			kv := mocks.NewMockKeyValueStore(ctrl)
			kv.EXPECT().Get(gomock.Any(), domain.SettingsKey).Return(tt.stored, tt.found, nil)

			got, err := settings.NewStore(kv, noopLogger{}).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKeyValueStore(ctrl)
	boom := errors.New("disk")
	kv.EXPECT().Get(gomock.Any(), domain.SettingsKey).Return(nil, false, boom)

	got, err := settings.NewStore(kv, noopLogger{}).Load(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKeyValueStore(ctrl)
	kv.EXPECT().Set(gomock.Any(), domain.SettingsKey, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, raw []byte) error {
			assert.JSONEq(t, `{"soundEnabled":true,"vibrationEnabled":false,"soundChoice":2}`, string(raw))
			return nil
		})

	s := settings.NewStore(kv, noopLogger{})
	require.NoError(t, s.Save(context.Background(), domain.Settings{SoundEnabled: true, SoundChoice: 2}))
}

func TestSave_InvalidChoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKeyValueStore(ctrl)
	kv.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := settings.NewStore(kv, noopLogger{}).Save(context.Background(), domain.Settings{SoundChoice: 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
