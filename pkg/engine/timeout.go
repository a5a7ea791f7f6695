package engine

import (
	"sync"
	"time"

	"github.com/chazu/octreeview/pkg/cloud"
	"github.com/pkg/errors"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult carries an evaluation's output through a channel.
type evalResult struct {
	cloud  *cloud.Cloud
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, giving up after timeout. A
// result whose generation is no longer current is discarded; the goroutine
// that produced a timed-out result is left to finish on its own.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) (*cloud.Cloud, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, errors.New("evaluation superseded by newer request")
		}
		return res.cloud, res.errors, res.err

	case <-timer.C:
		log.Warningf("evaluation %d timed out after %s", gen, timeout)
		return nil, nil, errors.Errorf("evaluation timed out after %s", timeout)
	}
}
