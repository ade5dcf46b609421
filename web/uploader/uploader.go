package uploader

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

const aclPerm = "public-read"

// Service uploads images and returns their public location.
type Service interface {
	Upload(context.Context, string, io.Reader) (string, error)
}

type impl struct {
	s3manager  s3manageriface.UploaderAPI
	bucketName string
}

// New returns an S3 backed uploader writing to bucketName.
func New(s3manager s3manageriface.UploaderAPI, bucketName string) Service {
	return &impl{s3manager: s3manager, bucketName: bucketName}
}

func (s *impl) Upload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	// TODO: create the bucket when it doesn't exist yet
	bucketName := s.bucketName
	acl := aclPerm

	result, err := s.s3manager.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: &bucketName,
		Key:    &fileName,
		Body:   r,
		ACL:    &acl,
	})
	if err != nil {
		return "", fmt.Errorf("can't upload %s with error: %w", fileName, err)
	}

	return result.Location, nil
}

type discard struct{}

// Discard returns an uploader that drops content and reports no location. It
// is used when no bucket is configured.
func Discard() Service {
	return discard{}
}

func (discard) Upload(_ context.Context, _ string, r io.Reader) (string, error) {
	_, err := io.Copy(io.Discard, r)
	return "", err
}
