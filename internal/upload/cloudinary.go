// Пакет upload — загрузка изображений товаров во внешний хостинг.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/ports"
)

// DefaultCloudinaryBase — API Cloudinary.
const DefaultCloudinaryBase = "https://api.cloudinary.com/v1_1"

// CloudinaryConfig — неподписанная загрузка через upload preset.
type CloudinaryConfig struct {
	BaseURL   string
	CloudName string
	Preset    string
	Timeout   time.Duration
}

// CloudinaryUploader — multipart POST на /<cloud>/image/upload.
type CloudinaryUploader struct {
	endpoint string
	preset   string
	http     *http.Client
}

var _ ports.ImageUploader = (*CloudinaryUploader)(nil)

// NewCloudinaryUploader — конструктор; пустые cloud name или preset — ошибка конфигурации.
func NewCloudinaryUploader(cfg CloudinaryConfig) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.Preset == "" {
		return nil, errors.New("cloudinary: cloud name and upload preset are required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultCloudinaryBase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CloudinaryUploader{
		endpoint: fmt.Sprintf("%s/%s/image/upload", base, cfg.CloudName),
		preset:   cfg.Preset,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload — возвращает secure_url загруженной картинки.
func (u *CloudinaryUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", fmt.Errorf("cloudinary: form: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("cloudinary: read image: %w", err)
	}
	if err := mw.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("cloudinary: form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("cloudinary: form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("cloudinary: request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary: %w", err)
	}
	defer resp.Body.Close()

	var out cloudinaryResponse
	decErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "image upload failed"
		if decErr == nil && out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("cloudinary: status=%d: %s", resp.StatusCode, msg)
	}
	if decErr != nil {
		return "", fmt.Errorf("cloudinary: decode response: %w", decErr)
	}
	if out.SecureURL == "" {
		return "", errors.New("cloudinary: empty secure_url")
	}
	return out.SecureURL, nil
}
