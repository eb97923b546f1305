package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	appconfig "athenaapi/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type AWSServiceProvider interface {
	InitPresignClient(ctx context.Context) error
	PresignLink(ctx context.Context, bucketName string, fileName string) (string, error)
	UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error)
	GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error)
}

// AWSService stores generated concept and look images in Cloudflare R2
// through the S3-compatible API, presigned-URL style.
type AWSService struct {
	S3PresignClient *s3.PresignClient
	Storage         appconfig.StorageConfig
}

func (awsService *AWSService) InitPresignClient(ctx context.Context) error {
	accountId := awsService.Storage.AccountID
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountId),
		}, nil
	})
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			awsService.Storage.AccessKeyID, awsService.Storage.AccessKeySecret, "")),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %v", err)
	}

	s3Client := s3.NewFromConfig(cfg)
	awsService.S3PresignClient = s3.NewPresignClient(s3Client)
	return nil
}

func (awsService *AWSService) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	request, err := awsService.S3PresignClient.PresignPutObject(ctx, &s3.PutObjectInput{Bucket: &bucketName, Key: &fileName})
	if err != nil {
		return "", err
	}
	return request.URL, nil
}

func (awsService *AWSService) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	presignedGetRequest, err := awsService.S3PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %v", err)
	}
	return presignedGetRequest.URL, nil
}

func (awsService *AWSService) UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error) {
	mimeType := http.DetectContentType(fileContent)
	allowed := false
	for _, t := range allowedImageMimeTypes {
		if mimeType == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", 0, fmt.Errorf("unsupported file type: %s", mimeType)
	}

	body := bytes.NewReader(fileContent)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, body)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", mimeType)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(respBody), resp.StatusCode, nil
}

// ImageStore is the storage surface for generated images: write the
// bytes, get back the object key the URL cache can presign reads for.
type ImageStore interface {
	StoreGeneratedImage(ctx context.Context, prefix string, imageBytes []byte) (string, error)
}

// R2ImageStore stores generated images under random keys like
// concepts/<uuid>.png.
type R2ImageStore struct {
	AWS        AWSServiceProvider
	BucketName string
}

func (store *R2ImageStore) StoreGeneratedImage(ctx context.Context, prefix string, imageBytes []byte) (string, error) {
	objectKey := fmt.Sprintf("%s/%s.png", prefix, uuid.NewString())

	putURL, err := store.AWS.PresignLink(ctx, store.BucketName, objectKey)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %v", err)
	}

	_, status, err := store.AWS.UploadToPresignedURL(ctx, store.BucketName, putURL, imageBytes)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("failed to upload image, status code: %d", status)
	}
	return objectKey, nil
}
