package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// signedURLTTL is how long bucket image links stay valid
const signedURLTTL = 24 * time.Hour

// objectSource lists object names and signs download links for them
type objectSource interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Sign(name string) (string, error)
}

// BucketResolver resolves images stored in a Cloud Storage bucket under Prefix.
// Each image is exposed through a signed GET URL.
type BucketResolver struct {
	Prefix string
	Log    *zap.Logger

	source objectSource
	closer func() error
}

// NewBucketResolver connects to the named bucket using default credentials
func NewBucketResolver(ctx context.Context, bucketName, prefix string, log *zap.Logger) (*BucketResolver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &BucketResolver{
		Prefix: prefix,
		Log:    log,
		source: &gcsSource{bucket: client.Bucket(bucketName)},
		closer: client.Close,
	}, nil
}

// Close releases the storage client
func (r *BucketResolver) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// Resolve lists the bucket prefix and signs a URL for every allow-listed image
func (r *BucketResolver) Resolve(ctx context.Context) (map[string]string, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	names, err := r.source.List(ctx, r.Prefix)
	if err != nil {
		return nil, err
	}

	assets := make(map[string]string, len(names))
	for _, name := range names {
		if !IsImage(name) {
			continue
		}

		signedURL, err := r.source.Sign(name)
		if err != nil {
			log.Warn("Error creating signed URL", zap.String("object", name), zap.Error(err))
			continue
		}
		assets[name] = signedURL
	}

	log.Debug("Resolved bucket assets", zap.String("prefix", r.Prefix), zap.Int("count", len(assets)))
	return assets, nil
}

type gcsSource struct {
	bucket *storage.BucketHandle
}

func (s *gcsSource) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string

	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		obj, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating objects: %w", err)
		}
		if obj.Name == "" || obj.Name[len(obj.Name)-1] == '/' {
			continue
		}
		names = append(names, obj.Name)
	}

	return names, nil
}

func (s *gcsSource) Sign(name string) (string, error) {
	return s.bucket.SignedURL(name, &storage.SignedURLOptions{
		Expires: time.Now().Add(signedURLTTL),
		Method:  "GET",
	})
}
