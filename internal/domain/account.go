package domain

import (
	"strings"
	"time"
)

// Ключи сессии в локальном хранилище.
const (
	TokenKey = "@token"
	UserKey  = "@user"
)

// User — мерчант, вернувшийся при логине.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session — результат успешного логина.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Restaurant — заведение текущего мерчанта.
type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsOpen      bool    `json:"isOpen"`
}

// MenuURL — публичная ссылка на меню (её же кодируют в QR).
func (r *Restaurant) MenuURL(webBase string) string {
	if r == nil || r.ID == "" {
		return ""
	}
	return strings.TrimRight(webBase, "/") + "/m/" + r.ID
}

// BillingPlan — тарифный план подписки.
type BillingPlan string

const (
	PlanMonthly BillingPlan = "monthly"
	PlanYearly  BillingPlan = "yearly"
)

// Valid — пустой план допустим (общая ссылка без тарифа).
func (p BillingPlan) Valid() bool {
	return p == "" || p == PlanMonthly || p == PlanYearly
}

// PlanPrice — тариф в ответе биллинга.
type PlanPrice struct {
	ID         BillingPlan `json:"id"`
	PriceCents int64       `json:"priceCents"`
}

// WhatsAppLink — ссылка на оплату через WhatsApp.
type WhatsAppLink struct {
	Phone       string     `json:"phone,omitempty"`
	Message     string     `json:"message,omitempty"`
	WhatsAppURL string     `json:"whatsappUrl"`
	Plan        *PlanPrice `json:"plan,omitempty"`
}

// Activation — результат активации кода подписки.
type Activation struct {
	OK        bool      `json:"ok"`
	Status    string    `json:"status"`
	PaidUntil time.Time `json:"paidUntil"`
}
