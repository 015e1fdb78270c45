package validate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// Result — сколько записей прошло проверку.
type Result struct {
	Valid   int
	Invalid int
}

func (r Result) String() string {
	return fmt.Sprintf("%d valid / %d invalid", r.Valid, r.Invalid)
}

// ProductFunc — обработчик валидной записи; line — номер строки (для JSON — индекс в массиве).
// Ошибка обработчика прерывает чтение.
type ProductFunc func(line int, in *domain.ProductInput) error

// ProductsFromFile — читает товары из JSON (объект или массив) или JSONL.
// Невалидные записи пропускаются и учитываются в Result.
func ProductsFromFile(filePath string, format InputFormat, fn ProductFunc) (Result, error) {
	// auto по расширению
	if format == FormatAuto {
		if strings.ToLower(filepath.Ext(filePath)) == ".jsonl" {
			format = FormatJSONL
		} else {
			format = FormatJSON
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(file)
		if err != nil {
			return Result{}, fmt.Errorf("read file: %w", err)
		}
		return productsFromJSON(raw, fn)
	case FormatJSONL:
		return ProductsFromJSONL(file, fn)
	default:
		return Result{}, fmt.Errorf("unsupported format: %s", format)
	}
}

// ProductsFromJSONL — по одному товару на строку, пустые строки пропускаются.
func ProductsFromJSONL(r io.Reader, fn ProductFunc) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(r)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		in, err := DecodeStrict[domain.ProductInput](raw)
		if err != nil {
			res.Invalid++
			continue
		}
		if err := fn(line, in); err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		res.Valid++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}

func productsFromJSON(raw []byte, fn ProductFunc) (Result, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		in, err := DecodeStrict[domain.ProductInput](raw)
		if err != nil {
			return Result{Invalid: 1}, err
		}
		if err := fn(1, in); err != nil {
			return Result{}, err
		}
		return Result{Valid: 1}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return Result{}, fmt.Errorf("%w: invalid json: %v", domain.ErrInvalidInput, err)
	}
	var res Result
	for i, item := range items {
		in, err := DecodeStrict[domain.ProductInput](item)
		if err != nil {
			res.Invalid++
			continue
		}
		if err := fn(i+1, in); err != nil {
			return res, fmt.Errorf("item %d: %w", i+1, err)
		}
		res.Valid++
	}
	return res, nil
}
