package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"claims-portal-api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// backupTables are dumped in full on every run. Order does not matter; each
// table is one JSON object per run.
var backupTables = []string{
	"claims",
	"audit_logs",
	"claim_status_transitions",
	"claim_notes",
	"users",
	"insurance_policies",
	"loss_assessors",
	"payments",
	"notifications",
}

// ObjectPutter is the slice of the S3 client the backup needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// BackupService exports a full-table dump of the relational store to object
// storage. It is operational tooling: failures are logged per table and the
// run continues, so one bad table does not abort the whole export.
type BackupService struct {
	db     *gorm.DB
	s3     ObjectPutter
	bucket string
	log    *logrus.Logger
}

func NewBackupService(db *gorm.DB, putter ObjectPutter, bucket string) *BackupService {
	return &BackupService{
		db:     db,
		s3:     putter,
		bucket: bucket,
		log:    config.GetLogger(),
	}
}

// Run dumps every table under backups/<date>/<table>.json and returns the
// combined error of any failed tables.
func (b *BackupService) Run(ctx context.Context) error {
	prefix := fmt.Sprintf("backups/%s", time.Now().UTC().Format("2006-01-02T15-04-05"))

	var failed []error
	for _, table := range backupTables {
		if err := b.exportTable(ctx, table, prefix); err != nil {
			config.LogError(b.log, "backup", "Run", "table export",
				map[string]any{"table": table}, err)
			failed = append(failed, fmt.Errorf("%s: %w", table, err))
		}
	}
	return errors.Join(failed...)
}

func (b *BackupService) exportTable(ctx context.Context, table, prefix string) error {
	var rows []map[string]any
	if err := b.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"table":       table,
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"row_count":   len(rows),
		"rows":        rows,
	})
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s.json", prefix, table)
	_, err = b.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	return err
}
