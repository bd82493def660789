package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ErrObjectNotFound marks an object-store miss as distinct from a
// provider fault. Callers translate it into their own not-found kind.
var ErrObjectNotFound = errors.New("object not found")

// StorageProvider represents storage provider interface
type StorageProvider interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// StorageConfig represents storage configuration
type StorageConfig struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Endpoint  string `json:"endpoint,omitempty"`
}

// S3Provider implements S3-compatible object storage
type S3Provider struct {
	s3Client *s3.S3
	uploader *s3manager.Uploader
	bucket   string
}

// NewS3Provider creates a new S3 provider
func NewS3Provider(config *StorageConfig) (*S3Provider, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(config.Region),
		Endpoint: aws.String(config.Endpoint),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Provider{
		s3Client: s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   config.Bucket,
	}, nil
}

// Upload writes an object, overwriting any existing object at key
func (p *S3Provider) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := p.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// Download reads an object. A miss yields ErrObjectNotFound.
func (p *S3Provider) Download(ctx context.Context, key string) ([]byte, error) {
	result, err := p.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	return data, nil
}

// Delete removes an object
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// isS3NotFound distinguishes a key miss from a provider fault
func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		if aerr.Code() == s3.ErrCodeNoSuchKey {
			return true
		}
		var rf awserr.RequestFailure
		if errors.As(err, &rf) && rf.StatusCode() == http.StatusNotFound {
			return true
		}
	}
	return false
}

// MemoryProvider is an in-process object store used by tests
type MemoryProvider struct {
	objects map[string][]byte
	types   map[string]string
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// Upload stores an object in memory
func (p *MemoryProvider) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	p.objects[key] = buf.Bytes()
	p.types[key] = contentType
	return nil
}

// Download reads an object from memory
func (p *MemoryProvider) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := p.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return data, nil
}

// Delete removes an object from memory
func (p *MemoryProvider) Delete(ctx context.Context, key string) error {
	delete(p.objects, key)
	delete(p.types, key)
	return nil
}

// ContentType returns the stored content type for key
func (p *MemoryProvider) ContentType(key string) string {
	return p.types[key]
}

var _ StorageProvider = (*S3Provider)(nil)
var _ StorageProvider = (*MemoryProvider)(nil)
