// Package storage uploads cover images to S3-compatible object storage.
// Images are resized and re-encoded to webp before upload so the public
// site never serves multi-megabyte originals.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/kavanaghbl/chambers-site/internal/config"
)

const (
	maxCoverWidth = 1600
	webpQuality   = 82
)

type MediaUploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewMediaUploader returns nil when object storage is not configured;
// callers treat a nil uploader as "cover uploads disabled".
func NewMediaUploader(cfg *config.Config) *MediaUploader {
	if cfg.S3Bucket == "" || cfg.S3AccessKey == "" {
		return nil
	}

	client := s3.New(s3.Options{
		Region:       cfg.S3Region,
		BaseEndpoint: optionalEndpoint(cfg.S3Endpoint),
		Credentials:  awscreds.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
	})

	return &MediaUploader{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimRight(cfg.MediaBaseURL, "/"),
	}
}

func optionalEndpoint(endpoint string) *string {
	if endpoint == "" {
		return nil
	}
	return aws.String(endpoint)
}

// UploadCover converts the image to webp and stores it under the given
// prefix, returning the public URL.
func (u *MediaUploader) UploadCover(ctx context.Context, prefix string, r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode cover image: %w", err)
	}

	src = shrink(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	key := fmt.Sprintf("%s/%d.webp", prefix, time.Now().UnixNano())

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("upload cover image: %w", err)
	}

	return u.baseURL + "/" + key, nil
}

func shrink(src image.Image) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= maxCoverWidth {
		return src
	}

	height := bounds.Dy() * maxCoverWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxCoverWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
