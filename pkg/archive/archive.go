// pkg/archive/archive.go

package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aqua-invoicing/pkg/ierr"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// Archiver keeps a copy of every exported invoice.
type Archiver interface {
	Archive(ctx context.Context, name string, body []byte) (string, error)
}

// S3Archiver uploads exports to an S3 bucket under a key prefix.
type S3Archiver struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	prefix   string
}

// NewS3 creates an archiver using the default AWS credential chain.
func NewS3(region, bucket, prefix string) (*S3Archiver, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, ierr.WithError(err).WithHint("could not create AWS session").Mark(ierr.ErrSystem)
	}
	return NewS3WithUploader(s3manager.NewUploader(sess), bucket, prefix), nil
}

func NewS3WithUploader(uploader s3manageriface.UploaderAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{uploader: uploader, bucket: bucket, prefix: prefix}
}

// Archive uploads body as prefix/name and returns the object URL.
func (a *S3Archiver) Archive(ctx context.Context, name string, body []byte) (string, error) {
	key := path.Join(a.prefix, name)
	out, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHintf("Error uploading %s to S3", name).
			Mark(ierr.ErrSystem)
	}
	if out.Location != "" {
		return out.Location, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.bucket, key), nil
}
