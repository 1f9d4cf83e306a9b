package photostorage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	raw, _ := io.ReadAll(in.Body)
	f.body = string(raw)
	return &s3.PutObjectOutput{}, f.err
}

func TestStorage_Upload(t *testing.T) {
	putter := &fakePutter{}
	storage := NewWithClient(putter, Config{Bucket: "pets", PublicBaseURL: "https://cdn.example.com/"})

	url, err := storage.Upload(context.Background(), "pets/1.jpg", "image/jpeg", strings.NewReader("jpeg"), 4)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/pets/1.jpg", url)
	assert.Equal(t, "pets", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "pets/1.jpg", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(putter.input.ContentLength))
	assert.Equal(t, "jpeg", putter.body)
}

func TestStorage_UploadError(t *testing.T) {
	storage := NewWithClient(&fakePutter{err: errors.New("denied")}, Config{Bucket: "pets", Region: "eu-central-1"})

	_, err := storage.Upload(context.Background(), "k", "image/png", strings.NewReader("x"), 1)

	assert.ErrorIs(t, err, ErrUpload)
}

func TestStorage_Disabled(t *testing.T) {
	var storage *Storage

	_, err := storage.Upload(context.Background(), "k", "image/png", strings.NewReader("x"), 1)

	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "http://minio:9000/pets", publicBaseURL(Config{Endpoint: "http://minio:9000/", Bucket: "pets"}))
	assert.Equal(t, "https://pets.s3.eu-central-1.amazonaws.com", publicBaseURL(Config{Bucket: "pets", Region: "eu-central-1"}))
}
