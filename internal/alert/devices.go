package alert

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// SoundFile — имя файла звука номер choice.
func SoundFile(choice int) string {
	if choice < 1 || choice > domain.SoundChoices {
		choice = 1
	}
	return fmt.Sprintf("new-order-%d.mp3", choice)
}

// ExecPlayer — проигрывает звук внешней командой (paplay, afplay, mpg123...).
type ExecPlayer struct {
	command string
	args    []string
	dir     string
}

var _ Player = (*ExecPlayer)(nil)

// NewExecPlayer — command и args, к которым в конец добавляется путь к файлу.
func NewExecPlayer(command string, args []string, soundDir string) *ExecPlayer {
	return &ExecPlayer{command: command, args: args, dir: soundDir}
}

// Play — ошибка, если файла звука нет или команда завершилась неуспешно.
func (p *ExecPlayer) Play(ctx context.Context, choice int) error {
	path := filepath.Join(p.dir, SoundFile(choice))
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("sound file: %w", err)
	}
	args := append(append([]string{}, p.args...), path)
	if out, err := exec.CommandContext(ctx, p.command, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", p.command, err, out)
	}
	return nil
}

// BellVibrator — «вибрация» терминала: символ BEL в writer.
type BellVibrator struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Vibrator = (*BellVibrator)(nil)

// NewBellVibrator — обычно w это os.Stdout терминала агента.
func NewBellVibrator(w io.Writer) *BellVibrator {
	return &BellVibrator{w: w}
}

// Vibrate — пишет один BEL; длительность импульса терминалу не передать.
func (b *BellVibrator) Vibrate(_ context.Context, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, "\a")
	return err
}
