// Package pool provides a bounded worker pool backed by ants.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"
	"github.com/panjf2000/ants/v2"
)

var (
	// ErrPoolClosed 池已关闭
	ErrPoolClosed = errors.New("pool is closed")
	// ErrPoolOverload 非阻塞模式下池已满
	ErrPoolOverload = errors.New("pool is overloaded")
	// ErrInvalidPoolConfig 池配置无效
	ErrInvalidPoolConfig = errors.New("invalid pool config")
)

// Config defines the configuration for the worker pool.
type Config struct {
	// Capacity 池容量（最大并发 goroutine 数）
	Capacity int
	// ExpiryDuration goroutine 空闲过期时间
	ExpiryDuration time.Duration
	// Nonblocking 提交任务是否非阻塞（若池满则返回错误）
	Nonblocking bool
	// PanicHandler 恐慌处理函数
	PanicHandler func(interface{})
}

// DefaultConfig 返回默认池配置
func DefaultConfig() *Config {
	return &Config{
		Capacity:       4,
		ExpiryDuration: 10 * time.Second,
	}
}

// Pool represents a worker pool.
type Pool struct {
	name     string
	pool     *ants.Pool
	stats    poolStatsCounter
	closed   atomic.Bool
	closedMu sync.Mutex
}

type poolStatsCounter struct {
	submitted atomic.Int64
	completed atomic.Int64
	panics    atomic.Int64
	rejected  atomic.Int64
}

// Stats contains statistics about the worker pool.
type Stats struct {
	SubmittedTasks int64 // 已提交任务数
	CompletedTasks int64 // 已完成任务数
	PanicRecovered int64 // 恢复的 panic 数
	RejectedTasks  int64 // 拒绝任务数
}

// NewPool creates a new worker pool with the given configuration.
func NewPool(name string, config *Config) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalidPoolConfig)
	}

	p := &Pool{name: name}

	panicHandler := config.PanicHandler
	if panicHandler == nil {
		panicHandler = func(r interface{}) {
			logger.Errorw("Worker panic recovered", "pool", name, "panic", r)
		}
	}

	pool, err := ants.NewPool(config.Capacity,
		ants.WithExpiryDuration(config.ExpiryDuration),
		ants.WithNonblocking(config.Nonblocking),
		ants.WithPanicHandler(func(r interface{}) {
			p.stats.panics.Add(1)
			panicHandler(r)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("创建 ants 池失败: %w", err)
	}
	p.pool = pool

	logger.Debugw("Worker pool created", "name", name, "capacity", config.Capacity)
	return p, nil
}

// Name 返回池名称
func (p *Pool) Name() string {
	return p.name
}

// Cap 返回池容量
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Submit 提交任务到池中执行
func (p *Pool) Submit(task func()) error {
	return p.submit(task, nil)
}

// submit 提交任务；done 在完成计数之后调用，任务 panic 时同样调用。
func (p *Pool) submit(task, done func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	err := p.pool.Submit(func() {
		if done != nil {
			defer done()
		}
		defer p.stats.completed.Add(1)
		task()
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			p.stats.rejected.Add(1)
			return ErrPoolOverload
		}
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}

	p.stats.submitted.Add(1)
	return nil
}

// ForEach 对 [0, n) 中的每个下标执行 fn，并等待全部完成。
// fn 只应写入下标对应的槽位，调用方据此保持结果顺序。
// 上下文取消后尚未开始的下标不再提交，已提交的任务仍会执行完毕。
func (p *Pool) ForEach(ctx context.Context, n int, fn func(i int)) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		idx := i
		wg.Add(1)
		if err := p.submit(func() { fn(idx) }, wg.Done); err != nil {
			wg.Done()
			return err
		}
	}
	return nil
}

// Release 关闭池并释放资源
func (p *Pool) Release() {
	p.closedMu.Lock()
	defer p.closedMu.Unlock()

	if p.closed.Load() {
		return
	}

	p.closed.Store(true)
	p.pool.Release()
	logger.Debugw("Worker pool released", "name", p.name)
}

// Stats 返回池统计信息快照
func (p *Pool) Stats() Stats {
	return Stats{
		SubmittedTasks: p.stats.submitted.Load(),
		CompletedTasks: p.stats.completed.Load(),
		PanicRecovered: p.stats.panics.Load(),
		RejectedTasks:  p.stats.rejected.Load(),
	}
}
