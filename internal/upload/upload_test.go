package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinary_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "products", r.FormValue("upload_preset"))

		f, fh, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		raw, _ := io.ReadAll(f)
		assert.Equal(t, "photo.jpg", fh.Filename)
		assert.Equal(t, "jpeg-bytes", string(raw))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/photo.jpg"}`))
	}))
	defer srv.Close()

	u, err := NewCloudinaryUploader(CloudinaryConfig{BaseURL: srv.URL, CloudName: "demo", Preset: "products"})
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), "photo.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.Equal(t, "https://res.cloudinary.com/demo/photo.jpg", url)
}

func TestCloudinary_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	u, err := NewCloudinaryUploader(CloudinaryConfig{BaseURL: srv.URL, CloudName: "demo", Preset: "nope"})
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Upload preset not found")
}

func TestCloudinary_RequiresConfig(t *testing.T) {
	_, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo"})
	require.Error(t, err)
}

type fakePutter struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3_Upload_PublicURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"aws default", S3Config{Bucket: "menu", Region: "sa-east-1", Prefix: "products/"}, "https://menu.s3.sa-east-1.amazonaws.com/products/k.jpg"},
		{"custom endpoint", S3Config{Bucket: "menu", Endpoint: "http://minio:9000/"}, "http://minio:9000/menu/k.jpg"},
		{"cdn", S3Config{Bucket: "menu", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com/k.jpg"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &fakePutter{}
			u := newS3Uploader(p, tt.cfg)
			u.newKey = func(ext string) string { return "k" + ext }

			url, err := u.Upload(context.Background(), "Photo.JPG", "image/jpeg", strings.NewReader("x"))
			require.NoError(t, err)
			require.Equal(t, tt.want, url)
			require.Equal(t, "menu", aws.ToString(p.in.Bucket))
			require.Equal(t, "image/jpeg", aws.ToString(p.in.ContentType))
		})
	}
}

func TestS3_Upload_Error(t *testing.T) {
	boom := errors.New("access denied")
	u := newS3Uploader(&fakePutter{err: boom}, S3Config{Bucket: "menu", Region: "us-east-1"})
	_, err := u.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	require.ErrorIs(t, err, boom)
}
