package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"fo-go/internal/config"
	"fo-go/internal/model"
	"fo-go/internal/organizer"
)

// CloudDriveScanner lists objects in an S3 bucket and downloads them into a
// local cache so the planner and executor can treat them like any other
// file. Static credentials from the config take precedence; otherwise the
// ambient AWS credential chain applies.
type CloudDriveScanner struct {
	cfg    config.CloudDriveSourceConfig
	logger organizer.Logger
}

var _ Scanner = (*CloudDriveScanner)(nil)

func NewCloudDriveScanner(cfg config.CloudDriveSourceConfig, logger organizer.Logger) *CloudDriveScanner {
	return &CloudDriveScanner{cfg: cfg, logger: logger}
}

func (s *CloudDriveScanner) Kind() model.SourceKind {
	return model.SourceCloudDrive
}

func (s *CloudDriveScanner) Scan(ctx context.Context) (*model.ScanResult, error) {
	result := &model.ScanResult{
		Source:     model.SourceCloudDrive,
		SourcePath: "s3://" + s.cfg.Bucket + "/" + s.cfg.Prefix,
		ScanTime:   time.Now(),
	}

	client, err := s.newClient(ctx)
	if err != nil {
		return nil, err
	}
	downloader := manager.NewDownloader(client)

	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(s.cfg.Prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing objects in %s: %w", s.cfg.Bucket, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			rec, err := s.fetch(ctx, downloader, key, obj)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, err))
				continue
			}
			result.Files = append(result.Files, rec)
			result.TotalSize += rec.Size
		}
	}

	s.logger.Debug("scanned cloud drive", "bucket", s.cfg.Bucket, "files", len(result.Files))
	return result, nil
}

func (s *CloudDriveScanner) newClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.cfg.Region),
	}
	if s.cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKeyID, s.cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// fetch downloads one object into the cache and builds its file record. The
// record carries the object's S3 coordinates in its metadata so the original
// location survives organization.
func (s *CloudDriveScanner) fetch(ctx context.Context, downloader *manager.Downloader, key string, obj types.Object) (*model.FileRecord, error) {
	local := filepath.Join(s.cfg.CachePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	f, err := os.Create(local)
	if err != nil {
		return nil, fmt.Errorf("creating cache file: %w", err)
	}
	_, err = downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(local)
		return nil, fmt.Errorf("downloading object: %w", err)
	}

	if obj.LastModified != nil {
		os.Chtimes(local, *obj.LastModified, *obj.LastModified)
	}

	info, err := os.Stat(local)
	if err != nil {
		return nil, fmt.Errorf("stat cached file: %w", err)
	}

	rec := model.NewFileRecord(local, model.SourceCloudDrive, info)
	rec.Metadata = map[string]string{
		"bucket": s.cfg.Bucket,
		"key":    key,
	}
	if obj.LastModified != nil {
		rec.CreatedAt = *obj.LastModified
		rec.ModifiedAt = *obj.LastModified
	}
	return rec, nil
}
