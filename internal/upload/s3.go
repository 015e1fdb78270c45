package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config — бакет с публичным чтением (или CDN перед ним).
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // MinIO, LocalStack и т.п.
	Prefix   string // например "products/"
	// PublicBaseURL — база публичных ссылок; пусто — стандартный адрес бакета.
	PublicBaseURL string
}

// putter — то, что нужно от s3.Client.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader — загрузка картинок в S3-совместимое хранилище.
type S3Uploader struct {
	client  putter
	bucket  string
	prefix  string
	baseURL string
	newKey  func(ext string) string
}

var _ ports.ImageUploader = (*S3Uploader)(nil)

// NewS3Uploader — клиент из стандартной цепочки AWS (env, профиль, роль).
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client putter, cfg S3Config) *S3Uploader {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		switch {
		case cfg.Endpoint != "":
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		baseURL: base,
		newKey:  func(ext string) string { return uuid.NewString() + ext },
	}
}

// Upload — ключ уникален для каждой загрузки, расширение берётся из имени файла.
func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := u.prefix + u.newKey(strings.ToLower(path.Ext(filename)))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put key=%s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}
