package face

import (
	"context"
	"errors"
	"time"
)

// ErrExtractionTimeout is returned when an extraction does not finish
// within the configured deadline.
var ErrExtractionTimeout = errors.New("embedding extraction timed out")

// ExtractorPool bounds how many extractions run at once. The model is
// CPU-heavy; without a bound a burst of registrations would stall every
// other request in the process. Each call also gets its own deadline.
type ExtractorPool struct {
	inner   Extractor
	slots   chan struct{}
	timeout time.Duration
}

func NewExtractorPool(inner Extractor, workers int, timeout time.Duration) *ExtractorPool {
	if workers < 1 {
		workers = 1
	}
	return &ExtractorPool{
		inner:   inner,
		slots:   make(chan struct{}, workers),
		timeout: timeout,
	}
}

// Extract waits for a free slot, then runs the wrapped extractor under
// the pool's timeout. Time spent waiting for a slot counts against the
// deadline.
func (p *ExtractorPool) Extract(ctx context.Context, imageData []byte) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, timeoutErr(ctx.Err())
	}
	defer func() { <-p.slots }()

	embedding, err := p.inner.Extract(ctx, imageData)
	if err != nil {
		if ctx.Err() != nil {
			return nil, timeoutErr(ctx.Err())
		}
		return nil, err
	}
	return embedding, nil
}

func timeoutErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrExtractionTimeout
	}
	return err
}
