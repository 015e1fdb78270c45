package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

func TestStruct_ProductInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      domain.ProductInput
		wantErr string
	}{
		{"ok", domain.ProductInput{Name: "Pizza", PriceCents: 3990}, ""},
		{"ok_with_image", domain.ProductInput{Name: "Pizza", PriceCents: 1, ImageURL: "https://cdn.example.com/p.jpg"}, ""},
		{"no_name", domain.ProductInput{PriceCents: 100}, "name обязателен"},
		{"zero_price", domain.ProductInput{Name: "X"}, "priceCents должен быть не меньше 1"},
		{"long_name", domain.ProductInput{Name: strings.Repeat("a", 121), PriceCents: 1}, "name должен быть не больше 120"},
		{"bad_url", domain.ProductInput{Name: "X", PriceCents: 1, ImageURL: "not a url"}, "imageUrl должен быть URL"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Struct(&tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("want ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q must contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestStruct_Settings(t *testing.T) {
	t.Parallel()

	if err := Struct(&domain.Settings{SoundChoice: 3}); err != nil {
		t.Fatalf("choice 3 must be valid: %v", err)
	}
	if err := Struct(&domain.Settings{SoundChoice: 4}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("choice 4 must be invalid, got %v", err)
	}
}

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	if _, err := DecodeStrict[domain.ProductInput]([]byte(`{"name":"A","priceCents":10}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := DecodeStrict[domain.ProductInput]([]byte(`{"name":"A","priceCents":10,"color":"red"}`)); err == nil {
		t.Fatalf("unknown field must fail")
	}
	if _, err := DecodeStrict[domain.ProductInput]([]byte(`{"name":"A","priceCents":10} {}`)); err == nil {
		t.Fatalf("trailing data must fail")
	}
	if _, err := DecodeStrict[domain.ProductInput]([]byte(`{"name":"A"}`)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("missing price must fail validation, got %v", err)
	}
}

func TestProductsFromJSONL_Mixed(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`{"name":"Pizza","priceCents":3990}`,
		`{"name":"","priceCents":100}`,
		``,
		`{"name":"Soda","priceCents":500}`,
	}, "\n")

	var names []string
	res, err := ProductsFromJSONL(strings.NewReader(input), func(_ int, in *domain.ProductInput) error {
		names = append(names, in.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid != 2 || res.Invalid != 1 {
		t.Fatalf("unexpected counters: %s", res)
	}
	if len(names) != 2 || names[0] != "Pizza" || names[1] != "Soda" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestProductsFromJSONL_HandlerErrorStops(t *testing.T) {
	t.Parallel()

	input := "{\"name\":\"A\",\"priceCents\":1}\n{\"name\":\"B\",\"priceCents\":1}\n"
	boom := errors.New("remote down")
	res, err := ProductsFromJSONL(strings.NewReader(input), func(int, *domain.ProductInput) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want handler error, got %v", err)
	}
	if res.Valid != 0 {
		t.Fatalf("nothing must be counted valid, got %s", res)
	}
}

func TestProductsFromFile_Formats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	arrayPath := filepath.Join(dir, "menu.json")
	if err := os.WriteFile(arrayPath, []byte(`[{"name":"A","priceCents":1},{"name":"B"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	linesPath := filepath.Join(dir, "menu.jsonl")
	if err := os.WriteFile(linesPath, []byte("{\"name\":\"A\",\"priceCents\":1}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	count := func(int, *domain.ProductInput) error { return nil }

	res, err := ProductsFromFile(arrayPath, FormatAuto, count)
	if err != nil || res.Valid != 1 || res.Invalid != 1 {
		t.Fatalf("json array: res=%s err=%v", res, err)
	}
	res, err = ProductsFromFile(linesPath, FormatAuto, count)
	if err != nil || res.Valid != 1 {
		t.Fatalf("jsonl: res=%s err=%v", res, err)
	}
	if _, err := ProductsFromFile(filepath.Join(dir, "missing.json"), FormatAuto, count); err == nil {
		t.Fatalf("missing file must fail")
	}
	if _, err := ProductsFromFile(arrayPath, InputFormat("xml"), count); err == nil {
		t.Fatalf("unsupported format must fail")
	}
}
