package charts

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/telecomx-cli/internal/logging"
)

// Job is one chart to render.
type Job struct {
	Name   string
	Path   string
	Render func() error
}

// RenderAll renders jobs concurrently, at most limit at a time (0 means 4).
// The first failure cancels jobs that have not started yet.
func RenderAll(ctx context.Context, jobs []Job, limit int, log *zap.Logger) error {
	log = logging.OrNop(log)
	if limit <= 0 {
		limit = 4
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := j.Render(); err != nil {
				return fmt.Errorf("%s: %w", j.Name, err)
			}
			log.Debug("chart written", zap.String("chart", j.Name), zap.String("path", j.Path))
			return nil
		})
	}
	return g.Wait()
}
