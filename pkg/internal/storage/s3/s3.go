// Package s3 处理对象存储操作，封装 MinIO 客户端并提供四类媒体内容的桶与 CDN 映射.
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/hydrogen/pkg/configs"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

// ObjectStore 服务层依赖的最小对象存储能力集合.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)
	CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error
	RemoveObject(ctx context.Context, bucket, key string) error
}

// Client 包装 MinIO 客户端.
type Client struct {
	*minio.Client
	cfg     configs.S3Config
	breaker *breaker
}

var _ ObjectStore = (*Client)(nil)

// New 初始化 MinIO 客户端，若媒体桶不存在则尝试创建.
func New(ctx context.Context, cfg *configs.S3Config, cb configs.CircuitBreakerConfig) (*Client, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo(configs.DefaultAppName, configs.AppVersion)

	c := &Client{Client: cli, cfg: *cfg, breaker: newBreaker(cb)}

	for _, bkt := range cfg.AllBuckets() {
		if bkt == "" {
			continue
		}

		exists, err := c.BucketExists(ctx, bkt)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", bkt, err)
		}

		if !exists {
			if err := c.MakeBucket(ctx, bkt); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bkt, err)
			}

			nlog.Logger().Info().Str("bucket", bkt).Msg("bucket created")
		}
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Msg("s3 connected")

	return c, nil
}

// BucketExists 检查桶是否存在.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	var ok bool

	err := c.breaker.run(func() error {
		var e error
		ok, e = c.Client.BucketExists(ctx, bucket)

		return e
	})
	if err != nil {
		logProviderError(err, "BucketExists", bucket, "")
	}

	return ok, err
}

// MakeBucket 创建桶.
func (c *Client) MakeBucket(ctx context.Context, bucket string) error {
	err := c.breaker.run(func() error {
		return c.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.cfg.Region})
	})
	if err != nil {
		logProviderError(err, "MakeBucket", bucket, "")
	}

	return err
}

// ObjectExists 通过 StatObject 判断对象是否存在，不存在时不返回错误.
func (c *Client) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	var found bool

	err := c.breaker.run(func() error {
		_, e := c.StatObject(ctx, bucket, key, minio.StatObjectOptions{})

		switch {
		case e == nil:
			found = true

			return nil
		case isNotFound(e):
			return nil
		default:
			return e
		}
	})
	if err != nil {
		logProviderError(err, "StatObject", bucket, key)

		return false, err
	}

	return found, nil
}

// CopyObject 在同一个桶内将 srcKey 复制为 dstKey.
func (c *Client) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error {
	err := c.breaker.run(func() error {
		_, e := c.Client.CopyObject(ctx,
			minio.CopyDestOptions{Bucket: bucket, Object: dstKey},
			minio.CopySrcOptions{Bucket: bucket, Object: srcKey},
		)

		return e
	})
	if err != nil {
		logProviderError(err, "CopyObject", bucket, srcKey)
	}

	return err
}

// RemoveObject 删除对象.
func (c *Client) RemoveObject(ctx context.Context, bucket, key string) error {
	err := c.breaker.run(func() error {
		return c.Client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	})
	if err != nil {
		logProviderError(err, "RemoveObject", bucket, key)
	}

	return err
}

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// BreakerState 返回对象存储熔断器状态.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	resp := minio.ToErrorResponse(err)

	return resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" || resp.Code == "NotFound"
}

// logProviderError 输出对象存储服务端返回的诊断字段.
func logProviderError(err error, op, bucket, key string) {
	if errors.Is(err, ErrBreakerOpen) {
		nlog.Logger().Warn().Str("op", op).Str("bucket", bucket).Msg("s3 circuit open")

		return
	}

	resp := minio.ToErrorResponse(err)

	nlog.Logger().Error().Err(err).
		Str("op", op).
		Str("bucket", bucket).
		Str("key", key).
		Str("code", resp.Code).
		Str("request_id", resp.RequestID).
		Str("host_id", resp.HostID).
		Msg("s3 operation failed")
}
