package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	appcache "github.com/yeisme/hydrogen/pkg/cache"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

// maxCachedBody 超过该大小的响应不缓存.
const maxCachedBody = 1 << 20

// cachedResponse 缓存中的响应.
type cachedResponse struct {
	Status      int    `json:"s"`
	ContentType string `json:"c,omitempty"`
	Body        []byte `json:"b,omitempty"`
	ETag        string `json:"e"`
	StoredAt    int64  `json:"t"`
}

// ResponseCache 缓存 GET/HEAD 的 200 响应 ttl 时长. vary 中的请求头参与缓存键.
// 命中时返回 X-Cache: HIT，并支持 If-None-Match 返回 304. 缓存读写失败不影响请求.
func ResponseCache(store *appcache.Cache, ttl time.Duration, vary ...string) gin.HandlerFunc {
	if store == nil || ttl <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	vary = append([]string(nil), vary...)
	sort.Strings(vary)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		key := responseCacheKey(c, vary)
		ctx := c.Request.Context()

		if entry, err := appcache.Get[cachedResponse](ctx, store, key); err == nil {
			serveCached(c, entry)
			return
		}

		w := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if c.Writer.Status() != http.StatusOK || w.truncated || len(c.Errors) > 0 {
			return
		}

		body := w.buf.Bytes()
		entry := cachedResponse{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        body,
			ETag:        fmt.Sprintf("\"%x\"", xxhash.Sum64(body)),
			StoredAt:    time.Now().UnixNano(),
		}

		if err := appcache.Set(ctx, store, key, entry, ttl); err != nil {
			nlog.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("store response cache failed")
		}
	}
}

func serveCached(c *gin.Context, entry cachedResponse) {
	h := c.Writer.Header()
	h.Set("ETag", entry.ETag)
	h.Set("Age", fmt.Sprintf("%.0f", time.Since(time.Unix(0, entry.StoredAt)).Seconds()))
	h.Set("X-Cache", "HIT")

	if c.GetHeader("If-None-Match") == entry.ETag {
		c.AbortWithStatus(http.StatusNotModified)
		return
	}

	if entry.ContentType != "" {
		h.Set("Content-Type", entry.ContentType)
	}

	c.Status(entry.Status)

	if c.Request.Method != http.MethodHead {
		_, _ = c.Writer.Write(entry.Body)
	}

	c.Abort()
}

// responseCacheKey 方法 + 路径 + 排序后的 query + vary 头，经 xxhash 压缩.
func responseCacheKey(c *gin.Context, vary []string) string {
	var b strings.Builder

	b.WriteString(c.Request.Method)
	b.WriteByte(':')

	b.WriteString(c.Request.URL.Path)

	if q := c.Request.URL.Query(); len(q) > 0 {
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}

	for _, h := range vary {
		b.WriteByte('|')
		b.WriteString(h)
		b.WriteByte('=')
		b.WriteString(c.GetHeader(h))
	}

	return fmt.Sprintf("%x", xxhash.Sum64String(b.String()))
}

// bodyCaptureWriter 在写出响应的同时保留一份 body.
type bodyCaptureWriter struct {
	gin.ResponseWriter

	buf       bytes.Buffer
	truncated bool
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	if !w.truncated {
		if w.buf.Len()+len(b) > maxCachedBody {
			w.truncated = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}

	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
