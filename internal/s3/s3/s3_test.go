package s3

import (
	"context"
	"testing"
	"time"

	"nbgrader-validate/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDisabledWithoutBucket(t *testing.T) {
	log := zerolog.Nop()
	svc, err := NewService(&config.Config{}, &log)
	require.NoError(t, err)
	require.False(t, svc.Enabled())

	assert.NoError(t, svc.UploadReport(context.Background(), "abc", time.Now(), []byte("output")))
}

func TestReportKey(t *testing.T) {
	log := zerolog.Nop()
	cfg := &config.Config{S3Storage: config.S3Storage{
		Bucket:        "reports",
		FolderReports: "nbgrader_reports",
		Region:        "us-east-1",
		Endpoint:      "http://localhost:9000",
	}}
	svc, err := NewService(cfg, &log)
	require.NoError(t, err)
	require.True(t, svc.Enabled())

	at := time.Date(2026, 3, 14, 23, 30, 0, 0, time.FixedZone("X", -2*60*60))
	assert.Equal(t, "nbgrader_reports/2026-03-15/abc.txt", svc.ReportKey("abc", at))
}
