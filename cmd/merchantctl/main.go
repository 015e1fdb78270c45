package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gunvolt24/merchant_dash/config"
	"github.com/joho/godotenv"
)

const usage = `usage: merchantctl [-v] <command> [flags]

commands:
  login            -email <e-mail> [-password <pass>]  (или MERCHANT_PASSWORD)
  logout
  orders           [-status NEW|PREPARING|...] [-json]
  status           <order-id> <STATUS>
  activate         <code>
  settings         [-sound on|off] [-vibration on|off] [-choice 1..3]
  settings test    пробное оповещение
  import-products  -in <file.json|file.jsonl> [-format auto|json|jsonl]
`

// errUsage — неверные аргументы; печатаем справку, код выхода 2.
var errUsage = errors.New("usage")

// CLI мерчанта: те же сессия, хранилище и удалённый API, что и у агента.
func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := run(ctx, &cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run — код выхода: 0 успех, 1 ошибка, 2 неверные аргументы.
func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	verbose := false
	if len(args) > 0 && args[0] == "-v" {
		verbose = true
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	d, err := newDeps(ctx, cfg, verbose)
	if err != nil {
		fmt.Fprintf(stderr, "merchantctl: %v\n", err)
		return 1
	}
	defer d.close()

	if err := cmd(ctx, d, args[1:], stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
			return 2
		}
		fmt.Fprintf(stderr, "merchantctl %s: %v\n", args[0], err)
		return 1
	}
	return 0
}
