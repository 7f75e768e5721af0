// Package harness implements the exhaustive decode harness of spec.md
// section 4.5: for a random codeword, enumerate every C(n,k) selection of
// k surviving positions, decode each one, and verify perfect recovery.
//
// The combinatorial generator is a direct port of the original C source's
// recursive combination() function. The worker pool's fan-out shape
// (spawn one goroutine per unit of concurrent work, report completion or
// failure over a channel, aggregate under a lock) is adapted from the
// teacher's controller.ErasureCoder.denseReadAt/denseWriteAt, which fan
// out one aread/awrite goroutine per backend and collect results over a
// channel; here the same idiom drives a fixed worker pool draining a
// pkg/queue.Queue instead of one goroutine per unit of work, since the
// number of combinations can vastly exceed a reasonable goroutine count.
package harness

import (
	"bytes"
	"context"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/shermanyin/erasure-code/pkg/queue"
	"github.com/shermanyin/erasure-code/pkg/reedsolomon"
)

// pollInterval is how often the driver checks whether every combination
// has been accounted for once enumeration has finished.
const pollInterval = 10 * time.Millisecond

// getTimeout is how long a worker waits on the queue before checking
// whether enumeration is done.
const getTimeout = time.Second

// Config controls a Run invocation.
type Config struct {
	// Workers is the size of the worker pool. Zero selects
	// runtime.NumCPU().
	Workers int
	// QueueDepth is the bounded queue's capacity. Zero selects a default.
	QueueDepth int
	// Rand supplies the random data vector. Nil selects a
	// time-seeded source.
	Rand *rand.Rand
}

// Report summarizes an exhaustive run.
type Report struct {
	K, P, N     int
	Total       int64
	Passed      int64
	Failed      int64
	FailedCases [][]int
}

// Run encodes a random k-byte vector with coder, then decodes every
// C(n,k) selection of surviving positions, verifying each recovers the
// original data. It returns a Report and a non-nil error if any
// combination failed to decode correctly.
func Run(coder *reedsolomon.Coder, cfg Config) (*Report, error) {
	k, n := coder.K(), coder.N()

	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	data := make([]byte, k)
	for i := range data {
		data[i] = byte(r.Intn(256))
	}

	parity, err := coder.Encode(data)
	if err != nil {
		return nil, errors.Wrap(err, "harness: encode")
	}
	codeword := append(append([]byte{}, data...), parity...)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = workers * 4
	}

	total := binomial(n, k)

	logrus.WithFields(logrus.Fields{
		"k": k, "p": coder.P(), "n": n, "total_combinations": total, "workers": workers,
	}).Info("harness: starting exhaustive decode run")

	q, err := queue.New[[]int](depth)
	if err != nil {
		return nil, errors.Wrap(err, "harness: queue")
	}

	var passed, failed int64
	var failedMu sync.Mutex
	var failedCases [][]int
	var workDone atomic.Bool

	ctx := context.Background()
	group, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		group.Go(func() error {
			runWorker(gctx, q, coder, data, codeword, &workDone, &passed, &failed, &failedMu, &failedCases)
			return nil
		})
	}

	emitDone := make(chan struct{})
	go func() {
		defer close(emitDone)
		comb := make([]int, k)
		emitCombinations(ctx, q, n, k, comb, 0, 0)
	}()

	<-emitDone
	workDone.Store(true)

	for atomic.LoadInt64(&passed)+atomic.LoadInt64(&failed) < total {
		time.Sleep(pollInterval)
	}

	if err := group.Wait(); err != nil {
		return nil, errors.Wrap(err, "harness: worker pool")
	}

	report := &Report{
		K: k, P: coder.P(), N: n,
		Total:       total,
		Passed:      atomic.LoadInt64(&passed),
		Failed:      atomic.LoadInt64(&failed),
		FailedCases: failedCases,
	}

	logrus.WithFields(logrus.Fields{
		"total": report.Total, "passed": report.Passed, "failed": report.Failed,
	}).Info("harness: exhaustive decode run complete")

	if report.Failed > 0 {
		return report, errors.Errorf("harness: %d of %d combinations failed to decode", report.Failed, report.Total)
	}
	return report, nil
}

func runWorker(
	ctx context.Context,
	q *queue.Queue[[]int],
	coder *reedsolomon.Coder,
	original []byte,
	codeword []byte,
	workDone *atomic.Bool,
	passed, failed *int64,
	failedMu *sync.Mutex,
	failedCases *[][]int,
) {
	k := coder.K()
	toDecode := make([]byte, k)

	for {
		indices, err := q.TimedGet(time.Now().Add(getTimeout))
		if err != nil {
			if workDone.Load() {
				return
			}
			continue
		}

		for i, idx := range indices {
			toDecode[i] = codeword[idx]
		}

		decoded, err := coder.Decode(toDecode, indices)
		ok := err == nil && bytes.Equal(decoded, original)

		if ok {
			atomic.AddInt64(passed, 1)
		} else {
			atomic.AddInt64(failed, 1)
			failedMu.Lock()
			*failedCases = append(*failedCases, append([]int{}, indices...))
			failedMu.Unlock()
			logrus.WithFields(logrus.Fields{
				"indices": indices, "err": err,
			}).Error("harness: combination failed to decode correctly")
		}
	}
}

// emitCombinations is the Go port of the original C combination(): it
// recursively enumerates all k-element subsets of [0, n) in lexicographic
// order and publishes a fresh copy of each to q.
func emitCombinations(ctx context.Context, q *queue.Queue[[]int], n, k int, comb []int, pos, start int) {
	if pos == k {
		cp := make([]int, k)
		copy(cp, comb)
		_ = q.Put(ctx, cp)
		return
	}
	for i := start; i <= n-k+pos; i++ {
		comb[pos] = i
		emitCombinations(ctx, q, n, k, comb, pos+1, i+1)
	}
}

// binomial computes C(n, k) exactly as long as each intermediate product
// C(n, i) * (n-i) fits in an int64. Larger values overflow: the field
// allows n up to 256, but a result such as C(256, 128) does not fit in an
// int64.
func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 0; i < k; i++ {
		result = result * int64(n-i) / int64(i+1)
	}
	return result
}
