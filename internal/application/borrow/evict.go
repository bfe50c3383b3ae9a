package borrow

import (
	"context"
	"time"

	"github.com/xiebiao/library/pkg/logger"
)

// bookCacheEvictDelay 第二次删除图书缓存的延迟
// 需大于一次详情查询(查库+回写缓存)的耗时
const bookCacheEvictDelay = 500 * time.Millisecond

// bookEvictor 借还书提交后删除图书缓存，delay后再删除一次
// 提交前读到旧状态的详情查询可能在第一次删除之后才回写缓存
type bookEvictor struct {
	cache BookCache
	delay time.Duration
}

func newBookEvictor(cache BookCache) bookEvictor {
	return bookEvictor{cache: cache, delay: bookCacheEvictDelay}
}

func (e bookEvictor) evict(ctx context.Context, bookID int64) {
	e.delete(ctx, bookID)
	if e.delay <= 0 {
		return
	}

	// 请求结束后ctx会被取消
	bg := context.WithoutCancel(ctx)
	time.AfterFunc(e.delay, func() {
		e.delete(bg, bookID)
	})
}

func (e bookEvictor) delete(ctx context.Context, bookID int64) {
	if err := e.cache.Delete(ctx, bookID); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Int64("book_id", bookID).Msg("删除图书缓存失败")
	}
}
