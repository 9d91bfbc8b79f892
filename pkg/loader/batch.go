package loader

import "context"

// Sample represents a single training row.
type Sample struct {
	X []float64
	Y float64
}

// Batch represents a collection of training rows.
type Batch struct {
	X [][]float64
	Y []float64
}

// Stream sends the rows of X and y in the given order, then closes out.
// It stops early when ctx is cancelled.
func Stream(ctx context.Context, X [][]float64, y []float64, order []int, out chan<- Sample) {
	defer close(out)
	for _, i := range order {
		select {
		case <-ctx.Done():
			return
		case out <- Sample{X: X[i], Y: y[i]}:
		}
	}
}

// Batcher reads from a Sample channel and emits mini-batches of batchSize.
// The final batch may be smaller. out is closed when in is drained or ctx
// is cancelled.
func Batcher(ctx context.Context, in <-chan Sample, batchSize int, out chan<- Batch) {
	defer close(out)
	if batchSize < 1 {
		batchSize = 1
	}

	var X [][]float64
	var Y []float64
	send := func(b Batch) bool {
		select {
		case <-ctx.Done():
			return false
		case out <- b:
			return true
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-in:
			if !ok {
				if len(Y) > 0 {
					send(Batch{X: X, Y: Y})
				}
				return
			}
			X = append(X, s.X)
			Y = append(Y, s.Y)
			if len(Y) == batchSize {
				if !send(Batch{X: X, Y: Y}) {
					return
				}
				X = nil
				Y = nil
			}
		}
	}
}

// Batches streams X and y in order through a Batcher and returns the
// channel of mini-batches.
func Batches(ctx context.Context, X [][]float64, y []float64, order []int, batchSize int) <-chan Batch {
	samples := make(chan Sample)
	batches := make(chan Batch)
	go Stream(ctx, X, y, order, samples)
	go Batcher(ctx, samples, batchSize, batches)
	return batches
}
