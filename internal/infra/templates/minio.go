package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

// MinioStore loads templates from an object bucket so prompt wording
// can be updated without redeploying the binary. Objects are named
// <prefix><name>.txt.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioStore connects to MinIO and verifies the bucket exists. A
// missing bucket is a configuration error, not something to create on
// the fly: the templates are provisioned out of band.
func NewMinioStore(ctx context.Context, endpoint, region, bucket, prefix, accessKey, secretKey string, useSSL bool) (*MinioStore, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("template bucket %q does not exist", bucket)
	}

	return &MinioStore{client: cli, bucket: bucket, prefix: prefix}, nil
}

func (s *MinioStore) Load(ctx context.Context, name string) (string, error) {
	key := s.prefix + name + ".txt"

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("get template object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", domain.Ef(domain.CodeTemplateMissing, "template object %s not found in %s", key, s.bucket)
		}
		return "", fmt.Errorf("read template object %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}
