package eventloader

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/go-kit/kit/log/level"
)

// S3 Actions ----------------------------

// Opens the source export from the configured bucket.
func (l *EventLoader) openSource(ctx context.Context, key string) (io.ReadCloser, error) {
	level.Info(l.Logger).Log("msg", "opening source file", "bucket", l.Bucket, "source_key", key)
	rsp, err := l.S3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return rsp.Body, nil
}

// Removes a fully loaded source export. Failures are logged only.
func (l *EventLoader) deleteSource(ctx context.Context, key string) {
	_, err := l.S3Svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(l.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		level.Warn(l.Logger).Log("msg", "failed to delete source file",
			"bucket", l.Bucket,
			"source_key", key,
			"err", err)
		return
	}
	level.Info(l.Logger).Log("msg", "deleted source file", "bucket", l.Bucket, "source_key", key)
}
