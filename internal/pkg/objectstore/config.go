package objectstore

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/env"
)

// Config holds S3 configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Optional CDN or bucket website URL
	Enabled         bool
}

// LoadConfig loads S3 configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
		Enabled:         env.GetEnvBool("S3_ENABLED", false),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields when uploads are enabled
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.AccessKeyID == "" {
		return errors.New("S3_ACCESS_KEY_ID is required when S3 is enabled")
	}
	if c.SecretAccessKey == "" {
		return errors.New("S3_SECRET_ACCESS_KEY is required when S3 is enabled")
	}
	if c.BucketName == "" {
		return errors.New("S3_BUCKET_NAME is required when S3 is enabled")
	}
	return nil
}

// PublicURL returns the URL clients use to fetch key.
func (c *Config) PublicURL(key string) string {
	key = strings.TrimPrefix(key, "/")
	switch {
	case c.PublicBaseURL != "":
		return strings.TrimSuffix(c.PublicBaseURL, "/") + "/" + key
	case c.EndpointURL != "":
		return strings.TrimSuffix(c.EndpointURL, "/") + "/" + path.Join(c.BucketName, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.BucketName, c.Region, key)
	}
}

// AvatarKey generates the object key of a user avatar
func AvatarKey(userID, objectID, ext string) string {
	// Format: avatars/<user>/<uuid>.ext
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("avatars/%s/%s%s", userID, objectID, ext)
}
