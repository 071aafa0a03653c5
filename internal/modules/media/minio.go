package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/emlakpro/core/internal/config"
	"github.com/emlakpro/core/internal/pkg/apperr"
)

const (
	uploadAttempts = 3
	uploadBackoff  = 500 * time.Millisecond
)

// objectAPI is the slice of the S3 client the delete and rename flows use.
// Client implements it over minio; tests implement it in memory.
type objectAPI interface {
	statObject(ctx context.Context, key string) error
	removeObject(ctx context.Context, key string, force bool) error
	copyObject(ctx context.Context, srcKey, dstKey string) error
	listKeys(ctx context.Context, prefix string) []string
}

// Client is the S3-compatible Store implementation.
type Client struct {
	mc         *minio.Client
	bucket     string
	publicBase string
	log        *zap.Logger
}

var _ Store = (*Client)(nil)
var _ objectAPI = (*Client)(nil)

// NewClient connects to the store and ensures the bucket exists.
func NewClient(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		log.Info("created storage bucket", zap.String("bucket", cfg.Bucket))
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Client{mc: mc, bucket: cfg.Bucket, publicBase: base, log: log}, nil
}

// Upload stores one object, retrying transient failures.
func (c *Client) Upload(ctx context.Context, obj UploadObject) (*StoredObject, error) {
	key := strings.Trim(obj.Folder, "/") + "/" + obj.FileName

	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		_, err := c.mc.PutObject(ctx, c.bucket, key,
			bytes.NewReader(obj.Data), int64(len(obj.Data)),
			minio.PutObjectOptions{ContentType: obj.ContentType})
		if err == nil {
			return &StoredObject{ID: key, URL: c.URLFor(key)}, nil
		}
		lastErr = err
		c.log.Warn("upload attempt failed",
			zap.String("key", key), zap.Int("attempt", attempt), zap.Error(err))
		if attempt < uploadAttempts {
			select {
			case <-ctx.Done():
				return nil, apperr.Upload(key, ctx.Err())
			case <-time.After(uploadBackoff * time.Duration(attempt)):
			}
		}
	}
	return nil, apperr.Upload(key, lastErr)
}

// Fetch reads an object's full content.
func (c *Client) Fetch(ctx context.Context, objectID string) ([]byte, error) {
	for _, key := range objectIDCandidates(objectID) {
		obj, err := c.mc.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			continue
		}
		data, err := io.ReadAll(obj)
		_ = obj.Close()
		if err == nil {
			return data, nil
		}
	}
	return nil, apperr.NotFound("görsel", objectID)
}

// DeleteObject removes one object. An id absent under every candidate key
// counts as already deleted; false means a stored copy survived every
// strategy.
func (c *Client) DeleteObject(ctx context.Context, objectID string) bool {
	return deleteObject(ctx, c, c.log, objectID)
}

// DeleteFolder removes everything under the folder. A folder with no
// objects under any prefix candidate counts as already deleted.
func (c *Client) DeleteFolder(ctx context.Context, folder string) bool {
	return deleteFolder(ctx, c, c.log, folder)
}

// RenameFolder moves every object under oldFolder to newFolder via
// copy-then-remove. Equal paths short-circuit to an identity mapping. A
// mid-batch failure returns the partial mapping with Complete false so the
// caller can still rewrite what did move.
func (c *Client) RenameFolder(ctx context.Context, oldFolder, newFolder string) (*RenameResult, error) {
	return renameFolder(ctx, c, c.log, c.URLFor, oldFolder, newFolder), nil
}

// List returns the object keys under the folder.
func (c *Client) List(ctx context.Context, folder string) ([]string, error) {
	prefix := strings.Trim(folder, "/") + "/"
	return c.listKeys(ctx, prefix), nil
}

// URLFor builds the public URL of an object key.
func (c *Client) URLFor(objectID string) string {
	return c.publicBase + "/" + strings.TrimLeft(objectID, "/")
}

func (c *Client) statObject(ctx context.Context, key string) error {
	_, err := c.mc.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	return err
}

func (c *Client) removeObject(ctx context.Context, key string, force bool) error {
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{ForceDelete: force})
}

func (c *Client) copyObject(ctx context.Context, srcKey, dstKey string) error {
	_, err := c.mc.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: c.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: c.bucket, Object: srcKey})
	return err
}

func (c *Client) listKeys(ctx context.Context, prefix string) []string {
	var keys []string
	for obj := range c.mc.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			c.log.Warn("list objects failed", zap.String("prefix", prefix), zap.Error(obj.Err))
			continue
		}
		keys = append(keys, obj.Key)
	}
	return keys
}

// deleteObject tries each candidate key in order. An object that exists
// under no candidate is already deleted, which is success.
func deleteObject(ctx context.Context, api objectAPI, log *zap.Logger, objectID string) bool {
	candidates := objectIDCandidates(objectID)
	if len(candidates) == 0 {
		return false
	}

	found := false
	for _, key := range candidates {
		if err := api.statObject(ctx, key); err != nil {
			continue
		}
		found = true
		if err := api.removeObject(ctx, key, false); err != nil {
			log.Warn("object removal failed", zap.String("key", key), zap.Error(err))
			continue
		}
		return true
	}
	if !found {
		return true
	}

	// the object exists but plain removal failed; force-delete covers
	// delete-marker leftovers on versioned buckets
	for _, key := range candidates {
		if err := api.removeObject(ctx, key, true); err != nil {
			log.Warn("forced object removal failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if api.statObject(ctx, key) != nil {
			return true
		}
	}
	return false
}

// deleteFolder tries each prefix candidate in order. A folder with no
// objects anywhere is already deleted, which is success.
func deleteFolder(ctx context.Context, api objectAPI, log *zap.Logger, folder string) bool {
	prefixes := folderPrefixCandidates(folder)
	if len(prefixes) == 0 {
		return false
	}

	found := false
	for _, prefix := range prefixes {
		keys := api.listKeys(ctx, prefix)
		if len(keys) == 0 {
			continue
		}
		found = true
		removed := 0
		for _, key := range keys {
			if err := api.removeObject(ctx, key, false); err != nil {
				log.Warn("folder object removal failed", zap.String("key", key), zap.Error(err))
				continue
			}
			removed++
		}
		if removed == len(keys) {
			return true
		}
	}
	return !found
}

// renameFolder copies then removes each object. It never fails outright:
// a mid-batch error stops the batch and the result carries whatever moved,
// with Complete false.
func renameFolder(ctx context.Context, api objectAPI, log *zap.Logger, urlFor func(string) string, oldFolder, newFolder string) *RenameResult {
	oldF := strings.Trim(oldFolder, "/")
	newF := strings.Trim(newFolder, "/")

	if oldF == newF {
		res := &RenameResult{Folder: newF, Complete: true}
		for _, key := range api.listKeys(ctx, oldF+"/") {
			res.Moved = append(res.Moved, MovedResource{OldID: key, NewID: key, NewURL: urlFor(key)})
		}
		return res
	}

	res := &RenameResult{Folder: newF, Complete: true}
	for _, key := range api.listKeys(ctx, oldF+"/") {
		newKey := remapObjectID(key, oldF, newF)
		if err := api.copyObject(ctx, key, newKey); err != nil {
			log.Warn("object move failed, keeping remainder in place",
				zap.String("from", key), zap.String("to", newKey), zap.Error(err))
			res.Complete = false
			break
		}
		if err := api.removeObject(ctx, key, false); err != nil {
			log.Warn("source removal after move failed", zap.String("key", key), zap.Error(err))
		}
		res.Moved = append(res.Moved, MovedResource{OldID: key, NewID: newKey, NewURL: urlFor(newKey)})
	}
	return res
}
