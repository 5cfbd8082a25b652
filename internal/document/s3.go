package document

import (
	"context"
	"fmt"
	"strings"

	"resumatch/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// ObjectGetter is the part of the S3 client the reader needs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// IsS3URI reports whether source names an S3 object
func IsS3URI(source string) bool {
	return strings.HasPrefix(source, s3Scheme)
}

// ParseS3URI splits s3://bucket/key into bucket and key
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 URI: %s", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 URI must be s3://bucket/key: %s", uri)
	}
	return bucket, key, nil
}

// s3Getter returns the configured client, loading the default AWS configuration
// on first use
func (r *Reader) s3Getter(ctx context.Context) (ObjectGetter, error) {
	r.s3Once.Do(func() {
		var opts []func(*awsconfig.LoadOptions) error
		if r.region != "" {
			opts = append(opts, awsconfig.WithRegion(r.region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			r.s3Err = errors.NewConfigError(errors.ErrCodeInvalidConfig, "unable to load AWS SDK config", err)
			return
		}
		r.s3Client = s3.NewFromConfig(cfg)
	})
	return r.s3Client, r.s3Err
}

func (r *Reader) readS3(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Invalid S3 source", err)
	}

	client, err := r.s3Getter(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot fetch %s", uri), err)
	}
	defer func() {
		if err := out.Body.Close(); err != nil {
			r.logger.Warn("Failed to close S3 object body", "source", uri, "error", err)
		}
	}()

	if out.ContentLength != nil && *out.ContentLength > r.maxSize {
		return nil, tooLarge(uri, *out.ContentLength, r.maxSize)
	}
	return r.readLimited(out.Body, uri)
}
