package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigner issues short-lived URLs for direct object storage access.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

const presignExpiry = 5 * time.Minute

// S3Presigner presigns against a single bucket.
type S3Presigner struct {
	Bucket  string
	Presign *s3.PresignClient
}

// NewS3Presigner builds a presigner for the contest photo bucket.
func NewS3Presigner() *S3Presigner {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return &S3Presigner{
		Bucket:  os.Getenv("S3_BUCKET_NAME"),
		Presign: s3.NewPresignClient(s3.NewFromConfig(cfg)),
	}
}

func (sp *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	req, err := sp.Presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(sp.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for '%s': %w", key, err)
	}
	return req.URL, nil
}

func (sp *S3Presigner) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := sp.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(sp.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign read for '%s': %w", key, err)
	}
	return req.URL, nil
}

// MediaService hands out presigned URLs for contest photos. Object keys are
// scoped by session and participant, and the key is recorded as the
// participant's photo so the contest can find it later.
type MediaService struct {
	Presigner Presigner
	Drawings  *DrawingService
}

func photoObjectKey(sessionID, name string) string {
	return "contest-photos/" + sessionID + "/" + name
}

// CreatePhotoUpload presigns an upload slot for the participant's contest
// photo and stores the resulting key against them.
func (ms *MediaService) CreatePhotoUpload(ctx context.Context, sessionID, name, fileType string) (string, string, error) {
	key := photoObjectKey(sessionID, name)
	url, err := ms.Presigner.PresignPut(ctx, key, fileType)
	if err != nil {
		return "", "", err
	}
	if err := ms.Drawings.SavePhoto(ctx, sessionID, name, key); err != nil {
		return "", "", err
	}
	return url, key, nil
}

// PhotoReadURL presigns a read of the participant's stored contest photo.
func (ms *MediaService) PhotoReadURL(ctx context.Context, sessionID, name string) (string, error) {
	photos, err := ms.Drawings.Photos(ctx, sessionID)
	if err != nil {
		return "", err
	}
	key, ok := photos[name]
	if !ok {
		return "", fmt.Errorf("no photo stored for '%s' in session '%s'", name, sessionID)
	}
	return ms.Presigner.PresignGet(ctx, key)
}
