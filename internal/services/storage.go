package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"regexp"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var objectNamePattern = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// StorageService uploads product images to a MinIO bucket. Without
// credentials the client stays nil and uploads are rejected with a clear
// error instead of crashing the process.
type StorageService struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewStorageService connects to MinIO if an endpoint is configured.
func NewStorageService(endpoint, accessKey, secretKey, bucket string, useSSL bool) *StorageService {
	svc := &StorageService{endpoint: endpoint, bucket: bucket, useSSL: useSSL}

	if endpoint == "" {
		log.Println("[Storage] MinIO not configured, image uploads disabled")
		return svc
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Printf("[Storage] MinIO connection failed: %v", err)
		return svc
	}

	svc.client = client
	return svc
}

// UploadImage stores the file under folder with a timestamped, sanitized
// object name and returns its public URL.
func (s *StorageService) UploadImage(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if s.client == nil {
		return "", errors.New("object storage is not configured")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := objectNamePattern.ReplaceAllString(file.Filename, "_")
	objectName := fmt.Sprintf("%s/%d_%s", folder, time.Now().UnixMilli(), name)

	_, err = s.client.PutObject(ctx, s.bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName), nil
}
