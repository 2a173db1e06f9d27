package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3 uploads images to an S3 or S3-compatible bucket. Credentials come from
// the default AWS chain (env vars, shared config, instance role).
type S3 struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

// NewS3 builds an S3 store. endpoint is optional and switches to path-style
// addressing for S3-compatible services. publicURL overrides the base URL
// returned to clients.
func NewS3(bucket, region, endpoint, publicURL string) (*S3, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3{client: s3.New(sess), bucket: bucket, publicURL: publicURL}, nil
}

func (s *S3) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	// PutObject needs a seekable body
	buf, err := io.ReadAll(io.LimitReader(body, size))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(int64(len(buf))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}
	return joinURL(s.publicURL, key), nil
}
