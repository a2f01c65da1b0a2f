package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePresigner struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://storage.example.com/" + *params.Key, Method: "PUT"}, nil
}

func TestIssueSlotPresignsUnderCategoryPrefix(t *testing.T) {
	presigner := &fakePresigner{}
	svc := NewUploadService(presigner, "claims-bucket")

	slot, err := svc.IssueSlot(context.Background(), "damage_photos", "kitchen ceiling.JPG", "image/jpeg")
	if err != nil {
		t.Fatalf("IssueSlot returned error: %v", err)
	}

	if !strings.HasPrefix(slot.Key, "claims/incoming/damage_photos/") {
		t.Errorf("key %q not under the category prefix", slot.Key)
	}
	if !strings.HasSuffix(slot.Key, ".jpg") {
		t.Errorf("expected the original extension lowercased, got %q", slot.Key)
	}
	if slot.UploadURL == "" || !strings.Contains(slot.UploadURL, slot.Key) {
		t.Errorf("upload URL %q does not reference the key", slot.UploadURL)
	}
	if slot.ExpiresIn != 15*60 {
		t.Errorf("expected a 15-minute expiry, got %d", slot.ExpiresIn)
	}

	if got := *presigner.lastInput.Bucket; got != "claims-bucket" {
		t.Errorf("bucket = %q", got)
	}
	if got := presigner.lastInput.Metadata["original_name"]; got != "kitchen ceiling.JPG" {
		t.Errorf("original_name metadata = %q", got)
	}
}

func TestIssueSlotRejectsUnknownCategory(t *testing.T) {
	svc := NewUploadService(&fakePresigner{}, "claims-bucket")

	_, err := svc.IssueSlot(context.Background(), "passport_scans", "file.pdf", "application/pdf")
	if !errors.Is(err, ErrUnsupportedCategory) {
		t.Fatalf("expected ErrUnsupportedCategory, got %v", err)
	}
}

func TestIssueSlotRejectsUnknownContentType(t *testing.T) {
	svc := NewUploadService(&fakePresigner{}, "claims-bucket")

	_, err := svc.IssueSlot(context.Background(), "invoices", "notes.exe", "application/x-msdownload")
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestIssueSlotNormalizesContentType(t *testing.T) {
	svc := NewUploadService(&fakePresigner{}, "claims-bucket")

	slot, err := svc.IssueSlot(context.Background(), "invoices", "invoice.pdf", "  Application/PDF ")
	if err != nil {
		t.Fatalf("IssueSlot returned error: %v", err)
	}
	if slot.ContentType != "application/pdf" {
		t.Fatalf("expected normalized content type, got %q", slot.ContentType)
	}
}

func TestIssueSlotPropagatesPresignFailure(t *testing.T) {
	presignErr := errors.New("presign refused")
	svc := NewUploadService(&fakePresigner{err: presignErr}, "claims-bucket")

	_, err := svc.IssueSlot(context.Background(), "invoices", "invoice.pdf", "application/pdf")
	if !errors.Is(err, presignErr) {
		t.Fatalf("expected the presign error to surface, got %v", err)
	}
}
