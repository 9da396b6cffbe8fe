package kafka

import (
	"context"
	"math/rand"
	"time"
)

// backoff — экспоненциальная задержка с equal-jitter: половина фиксирована, половина случайна.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
	rnd     *rand.Rand
}

func newBackoff(initial, maxDelay time.Duration, rnd *rand.Rand) *backoff {
	return &backoff{initial: initial, max: maxDelay, current: initial, rnd: rnd}
}

// Next — задержка для текущей попытки; следующая будет вдвое больше (не выше max).
func (b *backoff) Next() time.Duration {
	d := b.jitter(b.current)
	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

func (b *backoff) Reset() { b.current = b.initial }

// Short — пауза после неудачной обработки сообщения (не растёт).
func (b *backoff) Short() time.Duration {
	d := b.initial
	if d > 500*time.Millisecond {
		d = 500 * time.Millisecond
	}
	return b.jitter(d)
}

func (b *backoff) jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(b.rnd.Int63n(int64(d-half)+1))
}

// sleepCtx — false, если контекст отменили раньше.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
