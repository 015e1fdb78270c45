package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
)

// subscriptionGate — флаг истёкшей подписки (internal/subscription.Gate).
type subscriptionGate interface {
	Expired() bool
	Restore() bool
}

// BillingService — продление подписки: ссылка на оплату и активация кода.
type BillingService struct {
	accounts ports.AccountAPI
	gate     subscriptionGate
	log      ports.Logger
}

// NewBillingService — DI-конструктор.
func NewBillingService(accounts ports.AccountAPI, gate subscriptionGate, log ports.Logger) *BillingService {
	return &BillingService{accounts: accounts, gate: gate, log: log}
}

// Expired — истекла ли подписка (по последнему ответу сервера).
func (s *BillingService) Expired() bool {
	return s.gate.Expired()
}

// WhatsAppLink — ссылка на оплату; пустой план — общая ссылка.
func (s *BillingService) WhatsAppLink(ctx context.Context, plan domain.BillingPlan) (domain.WhatsAppLink, error) {
	if !plan.Valid() {
		return domain.WhatsAppLink{}, fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidInput, plan)
	}
	link, err := s.accounts.BillingWhatsApp(ctx, plan)
	if err != nil {
		return domain.WhatsAppLink{}, fmt.Errorf("billing whatsapp: %w", err)
	}
	return link, nil
}

// Activate — код обрезается и переводится в верхний регистр.
// Успешная активация снимает флаг истёкшей подписки.
func (s *BillingService) Activate(ctx context.Context, code string) (domain.Activation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.Activation{}, fmt.Errorf("%w: activation code is empty", domain.ErrInvalidInput)
	}

	act, err := s.accounts.ActivateSubscription(ctx, code)
	if err != nil {
		s.log.Warnf(ctx, "activate subscription failed err=%v", err)
		return domain.Activation{}, fmt.Errorf("activate subscription: %w", err)
	}

	if s.gate.Restore() {
		s.log.Infof(ctx, "subscription restored by activation paid_until=%s", act.PaidUntil.Format("2006-01-02"))
	}
	return act, nil
}
