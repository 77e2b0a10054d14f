package marksheet

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps renderer instances; browser-backed renderers cost
	// about 200MB each.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("renderer pool closed")

// RendererPool hands out Renderers for parallel batch rendering. Each
// renderer owns its backend, so browser-backed renderers print in parallel.
// Renderers are created lazily on first acquire.
type RendererPool struct {
	size    int
	factory func() (*Renderer, error)

	mu        sync.Mutex
	renderers []*Renderer
	idle      chan *Renderer
	created   int
	closed    bool
}

// NewRendererPool creates a pool with capacity for n renderers built by
// factory.
func NewRendererPool(n int, factory func() (*Renderer, error)) *RendererPool {
	if n < 1 {
		n = 1
	}
	return &RendererPool{
		size:      n,
		factory:   factory,
		renderers: make([]*Renderer, 0, n),
		idle:      make(chan *Renderer, n),
	}
}

// Acquire gets a renderer, creating one while under capacity. It blocks
// until a renderer is released or ctx is done.
func (p *RendererPool) Acquire(ctx context.Context) (*Renderer, error) {
	select {
	case r, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		r, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = r.Close()
			return nil, ErrPoolClosed
		}
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	select {
	case r, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a renderer to the pool.
// The lock is held while sending so Close cannot close the channel mid-send;
// the channel has room for every renderer so the send never blocks.
func (p *RendererPool) Release(r *Renderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.idle <- r
}

// Close releases every renderer's backend.
// Returns an aggregated error if several backends fail to close.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
