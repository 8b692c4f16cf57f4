package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilename(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 30, 5, 0, time.UTC)
	assert.Equal(t, "dose_history_20250310_183005.json", normalizeFilename("dose history.json", now))
	assert.Equal(t, "file_20250310_183005.json", normalizeFilename("???.json", now))
}

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	path, err := NewLocalStorage(dir).Save(context.Background(), "export.json", "application/json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(got))
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestSpacesStorage_Save(t *testing.T) {
	client := &fakeS3{}
	ss := newSpacesStorage(client, "bucket", "https://cdn.example.com/")

	url, err := ss.Save(context.Background(), "history.json", "application/json", []byte("[]"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/exports/history_"))
	assert.Equal(t, "bucket", aws.StringValue(client.input.Bucket))
	assert.Equal(t, "private", aws.StringValue(client.input.ACL))
	assert.Equal(t, "application/json", aws.StringValue(client.input.ContentType))
	assert.Equal(t, "[]", string(client.body))

	noCDN := newSpacesStorage(client, "bucket", "")
	url, err = noCDN.Save(context.Background(), "history.json", "", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "s3://bucket/exports/"))

	client.err = errors.New("denied")
	_, err = ss.Save(context.Background(), "history.json", "", nil)
	assert.Error(t, err)
}
