// Package storage implements photo binary storage on S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"partner_repairs/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const maxDeleteObjects = 1000

// S3API is the subset of *s3.Client used here.
type S3API interface {
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// S3PhotoStorage keeps photos as objects in one bucket. A ref is the object
// key; vehicle photos live under vehicles/<vehicle id>/<label>/.
type S3PhotoStorage struct {
	client S3API
	bucket string
}

var _ interfaces.IPhotoStorage = (*S3PhotoStorage)(nil)

var ErrBucketNotConfigured = errors.New("photo bucket not configured")

// NewS3Client builds the client; a custom endpoint (localstack) switches to
// path-style addressing.
func NewS3Client(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

func NewS3PhotoStorage(client S3API, bucket string) (*S3PhotoStorage, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, ErrBucketNotConfigured
	}
	return &S3PhotoStorage{client: client, bucket: bucket}, nil
}

// VehiclePhotoKey is where CopyPhotos places ref for vehicleID/label.
func VehiclePhotoKey(vehicleID, label, ref string) string {
	return path.Join("vehicles", vehicleID, label, path.Base(ref))
}

func (s *S3PhotoStorage) CopyPhotos(ctx context.Context, vehicleID, label string, refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		dst := VehiclePhotoKey(vehicleID, label, ref)
		if dst == ref {
			out = append(out, dst)
			continue
		}
		_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			Key:        aws.String(dst),
			CopySource: aws.String(s.bucket + "/" + (&url.URL{Path: ref}).EscapedPath()),
		})
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", ref, err)
		}
		out = append(out, dst)
	}
	return out, nil
}

func (s *S3PhotoStorage) DeletePhotos(ctx context.Context, refs []string) error {
	for start := 0; start < len(refs); start += maxDeleteObjects {
		end := start + maxDeleteObjects
		if end > len(refs) {
			end = len(refs)
		}
		objs := make([]types.ObjectIdentifier, 0, end-start)
		for _, ref := range refs[start:end] {
			objs = append(objs, types.ObjectIdentifier{Key: aws.String(ref)})
		}
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objs, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return err
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("delete %s: %s", aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}
	return nil
}
