// Package mirror copies a finished backup directory to an S3-compatible
// object store.
//
// Destinations are written as s3+http://host/bucket/prefix or
// s3+https://host/bucket/prefix. Credentials are read from AWS_ACCESS_KEY_ID
// and AWS_SECRET_ACCESS_KEY.
package mirror

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/matzehuels/nugetbackup/pkg/errors"
)

// Destination is a parsed mirror URL.
type Destination struct {
	Endpoint string
	Secure   bool
	Bucket   string
	Prefix   string
}

// ParseURL parses an s3+http(s) mirror URL.
func ParseURL(raw string) (*Destination, error) {
	if !strings.HasPrefix(raw, "s3+http://") && !strings.HasPrefix(raw, "s3+https://") {
		return nil, errors.New(errors.ErrCodeMirror, "mirror URL must start with s3+http:// or s3+https://: %s", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMirror, err, "parse mirror URL")
	}
	if u.Host == "" {
		return nil, errors.New(errors.ErrCodeMirror, "mirror URL has no host: %s", raw)
	}

	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if parts[0] == "" {
		return nil, errors.New(errors.ErrCodeMirror, "mirror URL has no bucket: %s", raw)
	}
	d := &Destination{
		Endpoint: u.Host,
		Secure:   u.Scheme == "s3+https",
		Bucket:   parts[0],
	}
	if len(parts) > 1 {
		d.Prefix = strings.Trim(parts[1], "/")
	}
	return d, nil
}

// Key returns the object name for a path relative to the mirrored directory.
func (d *Destination) Key(rel string) string {
	return path.Join(d.Prefix, filepath.ToSlash(rel))
}

func (d *Destination) String() string {
	scheme := "s3+http"
	if d.Secure {
		scheme = "s3+https"
	}
	return scheme + "://" + path.Join(d.Endpoint, d.Bucket, d.Prefix)
}

// NewClient creates a minio client for d using credentials from the
// environment. No request is made until the first upload.
func NewClient(d *Destination) (*minio.Client, error) {
	accessKeyID := os.Getenv("AWS_ACCESS_KEY_ID")
	if accessKeyID == "" {
		return nil, errors.New(errors.ErrCodeMirror, "AWS_ACCESS_KEY_ID not set")
	}
	secretAccessKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if secretAccessKey == "" {
		return nil, errors.New(errors.ErrCodeMirror, "AWS_SECRET_ACCESS_KEY not set")
	}

	mc, err := minio.New(d.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, os.Getenv("AWS_SESSION_TOKEN")),
		Secure: d.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMirror, err, "create S3 client for %s", d.Endpoint)
	}
	return mc, nil
}

// Uploader is the subset of *minio.Client used by Mirror.
type Uploader interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// Failure is one file that could not be uploaded.
type Failure struct {
	Path string
	Err  error
}

// Result lists what Upload did, by relative path.
type Result struct {
	Uploaded []string
	Skipped  []string
	Failures []Failure
}

// Mirror uploads directory trees to one destination.
type Mirror struct {
	Client      Uploader
	Destination *Destination

	// SkipExisting leaves objects alone when the store already holds an
	// object of the same size under the same key.
	SkipExisting bool

	Logger *log.Logger
}

// New creates a mirror. If logger is nil, log.Default() is used.
func New(client Uploader, dest *Destination, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.Default()
	}
	return &Mirror{Client: client, Destination: dest, Logger: logger}
}

// Upload copies every regular file below dir. Per-file failures are
// collected in the result; walking errors and cancellation are returned.
func (m *Mirror) Upload(ctx context.Context, dir string) (*Result, error) {
	res := &Result{}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			res.Failures = append(res.Failures, Failure{Path: rel, Err: err})
			return nil
		}

		key := m.Destination.Key(rel)
		if m.SkipExisting && m.exists(ctx, key, info.Size()) {
			m.Logger.Debug("Already mirrored", "key", key)
			res.Skipped = append(res.Skipped, rel)
			return nil
		}

		_, err = m.Client.FPutObject(ctx, m.Destination.Bucket, key, p, minio.PutObjectOptions{
			ContentType: contentType(rel),
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.Logger.Error("Upload failed", "key", key, "err", err)
			res.Failures = append(res.Failures, Failure{Path: rel, Err: errors.Wrap(errors.ErrCodeMirror, err, "upload %s", key)})
			return nil
		}
		m.Logger.Info("Uploaded", "key", key, "size", info.Size())
		res.Uploaded = append(res.Uploaded, rel)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, errors.Wrap(errors.ErrCodeMirror, err, "walk %s", dir)
	}
	return res, nil
}

func (m *Mirror) exists(ctx context.Context, key string, size int64) bool {
	stat, err := m.Client.StatObject(ctx, m.Destination.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			m.Logger.Debug("Stat failed", "key", key, "err", err)
		}
		return false
	}
	return stat.Size == size
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".nupkg", ".snupkg", ".zip":
		return "application/zip"
	case ".nuspec", ".xml":
		return "application/xml"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
