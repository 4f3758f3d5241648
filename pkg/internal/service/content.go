package service

import (
	"context"
	"strings"

	"github.com/yeisme/hydrogen/pkg/internal/storage/s3"
	nlog "github.com/yeisme/hydrogen/pkg/log"
	"github.com/yeisme/hydrogen/pkg/queue"
)

const (
	contentSong  = "song"
	contentVideo = "video"
)

// keyChange 一个对象键在更新前后的取值.
type keyChange struct {
	kind s3.Kind
	old  string
	new  string
}

// moved 新键非空且与旧键不同.
func (k keyChange) moved() bool {
	return k.new != "" && k.new != k.old
}

// reconciler 负责内容更新时对象存储的两阶段调整：先复制到新键，写入元数据后再删除旧键.
type reconciler struct {
	media  *s3.Media
	events *queue.Publisher
}

func newReconciler(media *s3.Media, events *queue.Publisher) *reconciler {
	return &reconciler{media: media, events: events}
}

// stage 为每个变更的键确保桶存在并复制旧对象. 任一步失败即返回，元数据保持不变.
func (r *reconciler) stage(ctx context.Context, changes []keyChange) error {
	for _, c := range changes {
		if !c.moved() || c.old == "" {
			continue
		}

		if err := r.media.EnsureBucket(ctx, c.kind); err != nil {
			return err
		}

		if err := r.media.Copy(ctx, c.kind, c.old, c.new); err != nil {
			return err
		}
	}

	return nil
}

// release 元数据写入后删除旧对象. 失败只记录日志并发布孤儿事件.
func (r *reconciler) release(ctx context.Context, content queue.ContentPayload, changes []keyChange) {
	for _, c := range changes {
		if !c.moved() || c.old == "" {
			continue
		}

		r.remove(ctx, content, c.kind, c.old)
	}
}

// purge 删除内容关联的全部对象.
func (r *reconciler) purge(ctx context.Context, content queue.ContentPayload, keys map[s3.Kind]string) {
	for kind, key := range keys {
		r.remove(ctx, content, kind, key)
	}
}

func (r *reconciler) remove(ctx context.Context, content queue.ContentPayload, kind s3.Kind, key string) {
	if key == "" {
		return
	}

	if _, err := r.media.RemoveIfExists(ctx, kind, key); err != nil {
		ref := r.ref(kind, key)

		nlog.Ctx(ctx).Error().Err(err).
			Str("bucket", ref.Bucket).
			Str("key", ref.Key).
			Uint("content_id", content.ID).
			Msg("remove stale object failed")

		r.events.ContentOrphaned(ctx, queue.ContentOrphanedPayload{
			Content: content,
			Object:  ref,
			Error:   err.Error(),
		})
	}
}

func (r *reconciler) ref(kind s3.Kind, key string) queue.ObjectRef {
	return queue.ObjectRef{Kind: string(kind), Bucket: r.media.Bucket(kind), Key: r.media.ObjectKey(kind, key)}
}

// refs 返回非空键对应的对象引用.
func (r *reconciler) refs(keys ...keyChange) []queue.ObjectRef {
	out := make([]queue.ObjectRef, 0, len(keys))
	for _, k := range keys {
		if k.new != "" {
			out = append(out, r.ref(k.kind, k.new))
		}
	}

	return out
}

// distribution 优先使用 CDN 地址，未配置时回退到请求中的地址.
func (r *reconciler) distribution(kind s3.Kind, key, fallback string) string {
	if uri := r.media.DistributionURI(kind, key); uri != "" {
		return uri
	}

	return fallback
}

// splitTags 拆分逗号分隔的标签并去除空白.
func splitTags(tags string) []string {
	out := []string{}

	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}

	return out
}

func deref(v *string, fallback string) string {
	if v == nil {
		return fallback
	}

	return *v
}
