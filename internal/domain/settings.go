package domain

// SettingsKey — ключ единственного блоба настроек оповещений.
const SettingsKey = "@merchant_settings_v1"

// Количество доступных звуков оповещения.
const SoundChoices = 3

// Settings — пользовательские настройки оповещений о новых заказах.
type Settings struct {
	SoundEnabled     bool `json:"soundEnabled"`
	VibrationEnabled bool `json:"vibrationEnabled"`
	SoundChoice      int  `json:"soundChoice" validate:"min=1,max=3"`
}

// DefaultSettings — значения при отсутствии сохранённого блоба.
func DefaultSettings() Settings {
	return Settings{
		SoundEnabled:     true,
		VibrationEnabled: true,
		SoundChoice:      1,
	}
}
