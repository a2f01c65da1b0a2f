package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
)

// Upload slots follow the two-phase pattern: the API issues a presigned PUT
// URL, the browser uploads straight to object storage, and only the resulting
// key string ever reaches the claim record. File bytes never pass through
// this service.

var (
	ErrUnsupportedCategory = errors.New("unsupported upload category")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// UploadCategories are the claim file arrays a slot may target.
var UploadCategories = []string{
	"damage_photos",
	"repair_quotes",
	"invoices",
	"police_reports",
	"other_documents",
	"tenancy_agreements",
	"signature",
}

var uploadContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Presigner is the part of the S3 presign client the service needs; tests
// substitute a fake.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type UploadService struct {
	presigner Presigner
	bucket    string
	ttl       time.Duration
}

func NewUploadService(presigner Presigner, bucket string) *UploadService {
	return &UploadService{
		presigner: presigner,
		bucket:    bucket,
		ttl:       15 * time.Minute,
	}
}

// UploadSlot is what the client needs to PUT the file directly to storage.
type UploadSlot struct {
	Key         string `json:"key"`
	UploadURL   string `json:"upload_url"`
	ExpiresIn   int    `json:"expires_in"`
	ContentType string `json:"content_type"`
}

// IssueSlot validates the request and presigns a PUT for a fresh object key
// under the category's prefix.
func (u *UploadService) IssueSlot(ctx context.Context, category, filename, contentType string) (*UploadSlot, error) {
	if !validCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCategory, category)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !uploadContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, contentType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("claims/incoming/%s/%s%s", category, ulid.Make().String(), ext)

	req, err := u.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original_name": filepath.Base(filename),
			"category":      category,
		},
	}, func(o *s3.PresignOptions) { o.Expires = u.ttl })
	if err != nil {
		return nil, err
	}

	return &UploadSlot{
		Key:         key,
		UploadURL:   req.URL,
		ExpiresIn:   int(u.ttl.Seconds()),
		ContentType: contentType,
	}, nil
}

func validCategory(category string) bool {
	for _, c := range UploadCategories {
		if c == category {
			return true
		}
	}
	return false
}
