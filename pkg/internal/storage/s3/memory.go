package s3

import (
	"context"
	"sync"
)

// MemoryStore 进程内对象存储，用于测试与本地开发（s3.endpoint 为空时使用）.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]struct{}
	// Ops 记录每次写操作，便于断言调用顺序.
	Ops []string
}

var _ ObjectStore = (*MemoryStore)(nil)

// NewMemoryStore 创建空的内存对象存储.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: map[string]map[string]struct{}{}}
}

func (s *MemoryStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.buckets[bucket]

	return ok, nil
}

func (s *MemoryStore) MakeBucket(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = map[string]struct{}{}
	}

	s.Ops = append(s.Ops, "mkbucket "+bucket)

	return nil
}

func (s *MemoryStore) ObjectExists(_ context.Context, bucket, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.buckets[bucket][key]

	return ok, nil
}

func (s *MemoryStore) CopyObject(_ context.Context, bucket, srcKey, dstKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucket]
	if !ok {
		return errNoSuchBucket(bucket)
	}

	if _, ok := b[srcKey]; !ok {
		return errNoSuchKey(bucket, srcKey)
	}

	b[dstKey] = struct{}{}
	s.Ops = append(s.Ops, "copy "+bucket+"/"+srcKey+" "+dstKey)

	return nil
}

func (s *MemoryStore) RemoveObject(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.buckets[bucket], key)
	s.Ops = append(s.Ops, "remove "+bucket+"/"+key)

	return nil
}

// Put 直接写入一个对象.
func (s *MemoryStore) Put(bucket, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = map[string]struct{}{}
	}

	s.buckets[bucket][key] = struct{}{}
}

// Has 判断对象是否存在.
func (s *MemoryStore) Has(bucket, key string) bool {
	ok, _ := s.ObjectExists(context.Background(), bucket, key)

	return ok
}

// ResetOps 清空操作记录.
func (s *MemoryStore) ResetOps() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Ops = nil
}
