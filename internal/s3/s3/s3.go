// Package s3 provides report archival to S3 storage.

package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/s3/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"
)

// Service defines a new S3 service and sets its attributes.
type Service struct {
	s3up *s3manager.Uploader
	cfg  *config.Config
	log  *zerolog.Logger
}

// NewService initializes a new S3 service. Without a bucket the service stays disabled.
func NewService(config *config.Config, logger *zerolog.Logger) (*Service, error) {
	logger.Debug().Msg("calling initializer of S3 service")
	svc := &Service{
		cfg: config,
		log: logger,
	}
	if config.S3Storage.Bucket == "" {
		logger.Debug().Msg("S3_BUCKET is empty, report archival is disabled")
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.S3Storage.AccessKeyID,
			config.S3Storage.SecretAccessKey,
			"",
		),
		Region:   &config.S3Storage.Region,
		Endpoint: &config.S3Storage.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errors.SessionError, err)
	}
	svc.s3up = s3manager.NewUploader(sess)
	return svc, nil
}

// Enabled reports whether a bucket is configured.
func (s *Service) Enabled() bool {
	return s.s3up != nil
}

// ReportKey derives the in-bucket key of a validation report.
func (s *Service) ReportKey(requestID string, at time.Time) string {
	return path.Join(s.cfg.S3Storage.FolderReports, at.UTC().Format("2006-01-02"), requestID+".txt")
}

// UploadReport uploads a validation report.
func (s *Service) UploadReport(ctx context.Context, requestID string, at time.Time, body []byte) error {
	s.log.Debug().Msg("calling `UploadReport` method")
	if !s.Enabled() {
		return nil
	}
	key := s.ReportKey(requestID, at)

	result, err := s.s3up.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.cfg.S3Storage.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg(errors.FileUploadError)
		return err
	}
	s.log.Info().Str("location", result.Location).Msg("report uploaded")
	return nil
}
