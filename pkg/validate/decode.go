package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// DecodeStrict — строгий разбор JSON (неизвестные поля и хвост запрещены) плюс проверка тегов.
func DecodeStrict[T any](raw []byte) (*T, error) {
	var out T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", domain.ErrInvalidInput, err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", domain.ErrInvalidInput)
	}
	if err := Struct(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
