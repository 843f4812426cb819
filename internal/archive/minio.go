// Package archive keeps frozen snapshots of closed proposals in object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/skillshare-dao/skillshare-dao/internal/config"
	"github.com/skillshare-dao/skillshare-dao/internal/proposal"
)

// objectClient is the subset of *minio.Client the archive needs.
type objectClient interface {
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, key string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// MinIOArchive stores one JSON object per closed proposal.
type MinIOArchive struct {
	client objectClient
	bucket string
}

// NewMinIOArchive connects to MinIO and ensures the bucket exists.
func NewMinIOArchive(ctx context.Context, cfg config.ArchiveConfig) (*MinIOArchive, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, cfg.Bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return &MinIOArchive{client: mc, bucket: cfg.Bucket}, nil
}

// ObjectKey is where the snapshot of proposal id lives in the bucket.
func ObjectKey(id string) string {
	return "proposals/" + id + ".json"
}

// Archive uploads the proposal snapshot, overwriting any previous copy.
func (a *MinIOArchive) Archive(ctx context.Context, p proposal.Proposal) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode proposal: %w", err)
	}
	_, err = a.client.PutObject(ctx, a.bucket, ObjectKey(p.ID), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put %s: %w", ObjectKey(p.ID), err)
	}
	return nil
}

// PresignedURL returns a presigned GET URL valid for the given duration.
func (a *MinIOArchive) PresignedURL(ctx context.Context, id string, expires time.Duration) (string, error) {
	presigned, err := a.client.PresignedGetObject(ctx, a.bucket, ObjectKey(id), expires, make(url.Values))
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
