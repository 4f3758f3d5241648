package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// S3Config MinIO / S3 兼容对象存储配置.
type S3Config struct {
	Endpoint        string       `mapstructure:"endpoint"`
	AccessKeyID     string       `mapstructure:"access_key_id"`
	SecretAccessKey string       `mapstructure:"secret_access_key"`
	UseSSL          bool         `mapstructure:"use_ssl"`
	Region          string       `mapstructure:"region"`
	Buckets         BucketConfig `mapstructure:"buckets"`
	CDN             CDNConfig    `mapstructure:"cdn"` // CloudFront 等分发地址
}

// BucketConfig 四类媒体内容各自的存储桶.
type BucketConfig struct {
	Video      string `mapstructure:"video"`
	Thumbnail  string `mapstructure:"thumbnail"`
	Song       string `mapstructure:"song"`
	CoverImage string `mapstructure:"cover_image"`
}

// CDNConfig 四类媒体内容的分发 URI，不带结尾斜杠.
type CDNConfig struct {
	Video      string `mapstructure:"video"`
	Thumbnail  string `mapstructure:"thumbnail"`
	Song       string `mapstructure:"song"`
	CoverImage string `mapstructure:"cover_image"`
}

const (
	DefaultS3Endpoint        = "localhost:9000"
	DefaultS3AccessKeyID     = "minioadmin"
	DefaultS3SecretAccessKey = "minioadmin"
	DefaultS3UseSSL          = false
	DefaultS3Region          = "us-east-1"
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// AllBuckets 返回所有配置的存储桶名称.
func (c *S3Config) AllBuckets() []string {
	return []string{c.Buckets.Video, c.Buckets.Thumbnail, c.Buckets.Song, c.Buckets.CoverImage}
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.region", DefaultS3Region)

	v.SetDefault("s3.buckets.video", "hydrogen-videos")
	v.SetDefault("s3.buckets.thumbnail", "hydrogen-thumbnails")
	v.SetDefault("s3.buckets.song", "hydrogen-songs")
	v.SetDefault("s3.buckets.cover_image", "hydrogen-coverimages")

	v.SetDefault("s3.cdn.video", "")
	v.SetDefault("s3.cdn.thumbnail", "")
	v.SetDefault("s3.cdn.song", "")
	v.SetDefault("s3.cdn.cover_image", "")
}
