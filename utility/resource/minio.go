package resource

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" validate:"required,url"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket" validate:"required"`
	Prefix    string `yaml:"prefix"`
}

// Minio resolves resources from an S3 compatible bucket. Paths are object
// keys below Prefix.
type Minio struct {
	Client *minio.Client
	Bucket string
	Prefix string
}

func NewMinio(config *MinioConfig) (*Minio, error) {
	// * parse endpoint
	parsed, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse minio endpoint: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("minio endpoint %q has no host", config.Endpoint)
	}

	// * initialize minio client
	client, err := minio.New(parsed.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio: %w", err)
	}

	return &Minio{
		Client: client,
		Bucket: config.Bucket,
		Prefix: config.Prefix,
	}, nil
}

func (r *Minio) Key(name string) string {
	return path.Join(r.Prefix, name)
}

func (r *Minio) Read(ctx context.Context, name string) ([]byte, error) {
	object, err := r.Client.GetObject(ctx, r.Bucket, r.Key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, MinioError(err)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		return nil, MinioError(err)
	}

	return content, nil
}

func (r *Minio) String() string {
	return fmt.Sprintf("minio:%s/%s", r.Bucket, r.Prefix)
}

// MinioError maps missing key and bucket responses onto fs.ErrNotExist.
func MinioError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	}
	return err
}
