package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	sc "github.com/dmitrijs2005/photoalbum/internal/server/config"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// Upload is a presigned PUT for a new photo object. URL is what the photo's
// url field should be set to once the object is uploaded.
type Upload struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	UploadURL string `json:"uploadUrl"`
}

// MediaService issues presigned S3 URLs for photo objects. Photos whose url
// is an s3://<bucket>/<key> reference can be downloaded through it.
type MediaService struct {
	db          dbx.Provider
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewMediaService(db dbx.Provider, m repomanager.RepositoryManager, cfg *sc.Config) *MediaService {
	return &MediaService{db: db, repomanager: m, config: cfg}
}

func (s *MediaService) storageKey(albumID string) string {
	d := now()
	return fmt.Sprintf("albums/%s/%d/%02d/%s", albumID, d.Year(), d.Month(), uuid.New())
}

// StorageURL is the photo url referring to key in the configured bucket.
func (s *MediaService) StorageURL(key string) string {
	return "s3://" + s.config.S3Bucket + "/" + key
}

// ObjectKey extracts the object key from a photo url, if the url points into
// the configured bucket.
func (s *MediaService) ObjectKey(url string) (string, bool) {
	prefix := "s3://" + s.config.S3Bucket + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func (s *MediaService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT for a fresh object under albumID.
// The album must exist.
func (s *MediaService) PresignUpload(ctx context.Context, albumID string) (*Upload, error) {
	conn, err := s.db.Conn()
	if err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Albums(conn).GetByID(ctx, albumID); err != nil {
		return nil, storeErr(s.db, err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := s.storageKey(albumID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, err
	}

	return &Upload{Key: key, URL: s.StorageURL(key), UploadURL: req.URL}, nil
}

// PresignDownload returns a presigned GET for the object behind a photo. A
// photo whose url is not a stored object yields common.ErrorValidation.
func (s *MediaService) PresignDownload(ctx context.Context, albumID, photoID string) (string, error) {
	conn, err := s.db.Conn()
	if err != nil {
		return "", err
	}
	photo, err := s.repomanager.Photos(conn).GetInAlbum(ctx, albumID, photoID)
	if err != nil {
		return "", storeErr(s.db, err)
	}

	key, ok := s.ObjectKey(photo.URL)
	if !ok {
		return "", fmt.Errorf("%w: photo url is not a stored object", common.ErrorValidation)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
