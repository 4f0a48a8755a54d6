package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/telegram"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	"github.com/Anycrabs/telegram-masters-bot/pkg/retry"
)

const (
	shardQueueSize = 64
	updateTimeout  = time.Minute
)

// UpdateHandler processes one decoded update
type UpdateHandler interface {
	Dispatch(ctx context.Context, u Update)
}

// Runner long-polls the update source and fans updates out to workers.
// Updates of one user always land on the same worker, so they are handled
// one at a time and in order.
type Runner struct {
	source  UpdateSource
	handler UpdateHandler
	workers int
	timeout time.Duration
	retry   retry.Config
}

// NewRunner creates a runner with the given number of workers and long
// poll timeout
func NewRunner(source UpdateSource, handler UpdateHandler, workers int, pollTimeout time.Duration) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		source:  source,
		handler: handler,
		workers: workers,
		timeout: pollTimeout,
		retry: retry.Config{
			MaxAttempts:   5,
			InitialDelay:  time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
		},
	}
}

// Run polls until ctx is cancelled or Telegram rejects getUpdates outright,
// as it does for a revoked token. Updates already fetched are finished
// before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	shards := make([]chan Update, r.workers)
	for i := range shards {
		shards[i] = make(chan Update, shardQueueSize)
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, shard := range shards {
		g.Go(func() error {
			for u := range shard {
				r.handle(gctx, u)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, shard := range shards {
				close(shard)
			}
		}()
		return r.poll(gctx, shards)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Runner) handle(ctx context.Context, u Update) {
	// in-flight updates outlive shutdown
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), updateTimeout)
	defer cancel()
	r.handler.Dispatch(ctx, u)
}

func (r *Runner) poll(ctx context.Context, shards []chan Update) error {
	logger := observability.LoggerFromContext(ctx)
	var offset int64

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := r.fetch(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if telegram.IsRejected(err) {
				return fmt.Errorf("getUpdates rejected: %w", err)
			}
			logger.Error().Err(err).Msg("polling updates failed")
			continue
		}

		for _, raw := range batch {
			if id := int64(raw.UpdateID); id >= offset {
				offset = id + 1
			}
			u, ok := FromTelegram(raw)
			if !ok {
				continue
			}
			shard := shards[shardFor(u.UserID, len(shards))]
			select {
			case shard <- u:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (r *Runner) fetch(ctx context.Context, offset int64) ([]tgbotapi.Update, error) {
	var batch []tgbotapi.Update
	err := retry.DoWithLog(ctx, r.retry, "telegram", func() error {
		var err error
		batch, err = r.source.GetUpdates(ctx, offset, r.timeout)
		if telegram.IsRejected(err) {
			return retry.Permanent(err)
		}
		return err
	}, func(attempt int, err error, next time.Duration) {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Msg("getUpdates failed, retrying")
	})
	return batch, err
}

func shardFor(userID int64, n int) int {
	s := userID % int64(n)
	if s < 0 {
		s = -s
	}
	return int(s)
}
