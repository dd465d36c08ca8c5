// Package storage wraps the AWS SDK v2 S3 client for the image upload
// flow: the admin UI asks the API for pre-signed PUT URLs and uploads
// directly to the bucket, so image bytes never pass through this server.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// presignTTL bounds how long an issued upload URL stays valid.
const presignTTL = 60 * time.Second

// Client wraps an S3 client for product image storage.
type Client struct {
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for uploaded files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage; the upload endpoint then reports storage as
// unconfigured.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		presigner: s3.NewPresignClient(s3Client),
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// UploadRequest describes one file the client wants to upload.
type UploadRequest struct {
	FileName    string `json:"name"`
	ContentType string `json:"type"`
}

// UploadResult carries the pre-signed upload descriptor for one file, or
// the error that prevented signing it.
type UploadResult struct {
	FileName  string `json:"file_name"`
	Key       string `json:"key,omitempty"`
	UploadURL string `json:"upload_url,omitempty"`
	PublicURL string `json:"public_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// PresignUploads signs a PUT URL per requested file. Each file is signed
// independently so one failure does not void the batch; callers decide
// whether partial success is acceptable.
func (c *Client) PresignUploads(ctx context.Context, reqs []UploadRequest) []UploadResult {
	results := make([]UploadResult, 0, len(reqs))
	for _, req := range reqs {
		res := UploadResult{FileName: req.FileName}

		key, err := objectKey(req.FileName)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		signed, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(c.bucket),
			Key:         aws.String(key),
			ContentType: aws.String(req.ContentType),
		}, s3.WithPresignExpires(presignTTL))
		if err != nil {
			res.Error = fmt.Sprintf("presign %s: %v", req.FileName, err)
			results = append(results, res)
			continue
		}

		res.Key = key
		res.UploadURL = signed.URL
		res.PublicURL = c.FileURL(key)
		results = append(results, res)
	}
	return results
}

// FileURL returns the public URL for an uploaded object. Uses the
// configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// objectKey builds a collision-free key that keeps the original file name
// readable in the bucket listing.
func objectKey(fileName string) (string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return "", fmt.Errorf("file name is required")
	}
	if strings.ContainsAny(fileName, "/\\") {
		return "", fmt.Errorf("file name %q must not contain path separators", fileName)
	}
	return uuid.New().String() + "_" + fileName, nil
}
