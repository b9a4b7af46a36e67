package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type reportDownload struct {
	data      []byte
	expiresAt time.Time
}

// reportDownloadStore 报表下载的一次性令牌存储
// 报表字节在内存中短暂停留，下载一次即删，过期自动清理。
type reportDownloadStore struct {
	mu    sync.Mutex
	items map[string]reportDownload
}

func newReportDownloadStore() *reportDownloadStore {
	return &reportDownloadStore{
		items: make(map[string]reportDownload),
	}
}

func (s *reportDownloadStore) put(data []byte, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = uuid.New().String()
	s.items[token] = reportDownload{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *reportDownloadStore) get(token string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return nil, false
	}
	if time.Now().After(v.expiresAt) {
		delete(s.items, token)
		return nil, false
	}
	return v.data, true
}

func (s *reportDownloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

func (s *reportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
