package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Gunvolt24/merchant_dash/config"
	"github.com/Gunvolt24/merchant_dash/internal/app"
	cachemem "github.com/Gunvolt24/merchant_dash/internal/cache/memory"
	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/internal/remote"
	"github.com/Gunvolt24/merchant_dash/internal/session"
	"github.com/Gunvolt24/merchant_dash/internal/settings"
	"github.com/Gunvolt24/merchant_dash/internal/subscription"
	"github.com/Gunvolt24/merchant_dash/internal/usecase"
	"github.com/Gunvolt24/merchant_dash/internal/watcher"
	"github.com/Gunvolt24/merchant_dash/pkg/logger"
	"github.com/Gunvolt24/merchant_dash/pkg/validate"
)

var errNotSignedIn = errors.New("not signed in, run `merchantctl login` first")

// deps — то же, что собирает агент, без HTTP. Оповещения только пробные.
type deps struct {
	cfg      *config.Config
	log      ports.Logger
	watcher  *watcher.Watcher
	auth     *usecase.AuthService
	board    *usecase.OrderBoard
	billing  *usecase.BillingService
	products *usecase.ProductService
	settings *settings.Store
	close    func()
}

func newDeps(ctx context.Context, cfg *config.Config, verbose bool) (*deps, error) {
	var (
		log        ports.Logger = logger.NewNop()
		closeLogFn             = func() error { return nil }
	)
	if verbose {
		zl, cleanup, err := logger.NewZapLogger(cfg.Logger.IsProd)
		if err != nil {
			return nil, err
		}
		log, closeLogFn = zl, cleanup
	}

	kv, closeKV, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		_ = closeLogFn()
		return nil, err
	}

	sessions := session.NewStore(kv, log)
	client := remote.New(remote.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	}, sessions, log)
	gate := subscription.NewGate()

	// без получателя оповещений: CLI только читает список
	w := watcher.New(client, nil, gate, log, watcher.Config{})

	return &deps{
		cfg:      cfg,
		log:      log,
		watcher:  w,
		auth:     usecase.NewAuthService(client, sessions, log),
		board:    usecase.NewOrderBoard(w),
		billing:  usecase.NewBillingService(client, gate, log),
		products: usecase.NewProductService(client, cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL), nil, log),
		settings: settings.NewStore(kv, log),
		close: func() {
			closeKV()
			_ = closeLogFn()
		},
	}, nil
}

// requireSession — восстанавливает сессию прошлого login.
func (d *deps) requireSession(ctx context.Context) (*domain.User, error) {
	u, err := d.auth.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errNotSignedIn
	}
	return u, nil
}

type command func(ctx context.Context, d *deps, args []string, out io.Writer) error

var commands = map[string]command{
	"login":           cmdLogin,
	"logout":          cmdLogout,
	"orders":          cmdOrders,
	"status":          cmdStatus,
	"activate":        cmdActivate,
	"settings":        cmdSettings,
	"import-products": cmdImportProducts,
}

// newFlags — FlagSet без вывода в stderr: ошибки возвращаются как errUsage.
func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func cmdLogin(ctx context.Context, d *deps, args []string, out io.Writer) error {
	fs := newFlags("login")
	email := fs.String("email", "", "e-mail мерчанта")
	password := fs.String("password", "", "пароль (по умолчанию из MERCHANT_PASSWORD)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("MERCHANT_PASSWORD")
	}

	u, err := d.auth.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "signed in as %s (%s)\n", u.Email, u.ID)
	return nil
}

func cmdLogout(ctx context.Context, d *deps, _ []string, out io.Writer) error {
	d.watcher.Reset()
	if err := d.auth.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "signed out")
	return nil
}

func cmdOrders(ctx context.Context, d *deps, args []string, out io.Writer) error {
	fs := newFlags("orders")
	status := fs.String("status", "", "фильтр по статусу")
	asJSON := fs.Bool("json", false, "вывод в JSON")
	if err := parse(fs, args); err != nil {
		return err
	}
	if _, err := d.requireSession(ctx); err != nil {
		return err
	}

	orders, err := d.board.List(ctx, domain.OrderStatus(strings.ToUpper(*status)), false)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(orders)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCUSTOMER\tTOTAL\tCREATED")
	for i := range orders {
		o := &orders[i]
		customer := "-"
		if o.CustomerName != nil && *o.CustomerName != "" {
			customer = *o.CustomerName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d.%02d\t%s\n",
			o.ShortID(), o.Status, customer, o.TotalCents/100, o.TotalCents%100, o.CreatedAt.Local().Format("02.01 15:04"))
	}
	return tw.Flush()
}

func cmdStatus(ctx context.Context, d *deps, args []string, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: status <order-id> <STATUS>", errUsage)
	}
	if _, err := d.requireSession(ctx); err != nil {
		return err
	}

	// свежий список, чтобы проверить переход по текущему статусу
	if _, err := d.board.List(ctx, "", false); err != nil {
		return err
	}
	order, err := d.board.SetStatus(ctx, args[0], domain.OrderStatus(strings.ToUpper(args[1])))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "order %s -> %s\n", order.ShortID(), order.Status)
	return nil
}

func cmdActivate(ctx context.Context, d *deps, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: activate <code>", errUsage)
	}
	if _, err := d.requireSession(ctx); err != nil {
		return err
	}

	act, err := d.billing.Activate(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "subscription %s, paid until %s\n", act.Status, act.PaidUntil.Format("2006-01-02"))
	return nil
}

func cmdSettings(ctx context.Context, d *deps, args []string, out io.Writer) error {
	if len(args) > 0 && args[0] == "test" {
		return cmdTestAlert(ctx, d, out)
	}
	fs := newFlags("settings")
	sound := fs.String("sound", "", "on|off")
	vibration := fs.String("vibration", "", "on|off")
	choice := fs.Int("choice", 0, "номер звука 1..3")
	if err := parse(fs, args); err != nil {
		return err
	}

	s, err := d.settings.Load(ctx)
	if err != nil {
		return err
	}
	changed := false
	if *sound != "" {
		v, err := onOff(*sound)
		if err != nil {
			return err
		}
		s.SoundEnabled, changed = v, true
	}
	if *vibration != "" {
		v, err := onOff(*vibration)
		if err != nil {
			return err
		}
		s.VibrationEnabled, changed = v, true
	}
	if *choice != 0 {
		s.SoundChoice, changed = *choice, true
	}
	if changed {
		if err := d.settings.Save(ctx, s); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// cmdTestAlert — звук и BEL с сохранёнными настройками; сбой устройства не ошибка.
func cmdTestAlert(ctx context.Context, d *deps, out io.Writer) error {
	n := app.NewDeviceNotifier(d.cfg, d.settings, out, d.log)
	if err := n.Alert(ctx, nil); err != nil {
		d.log.Warnf(ctx, "test alert failed err=%v", err)
	}
	fmt.Fprintln(out, "test alert sent")
	return nil
}

func onOff(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: want on|off, got %q", errUsage, v)
}

func cmdImportProducts(ctx context.Context, d *deps, args []string, out io.Writer) error {
	fs := newFlags("import-products")
	in := fs.String("in", "", "файл .json или .jsonl")
	format := fs.String("format", string(validate.FormatAuto), "auto|json|jsonl")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("%w: -in is required", errUsage)
	}
	if _, err := d.requireSession(ctx); err != nil {
		return err
	}

	res, err := d.products.Import(ctx, *in, validate.InputFormat(*format))
	fmt.Fprintf(out, "import: %s, created %d\n", res.Result, res.Created)
	return err
}
