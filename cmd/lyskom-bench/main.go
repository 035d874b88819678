// Command lyskom-bench opens a single Session and fires N concurrent
// get-time calls to measure how much throughput refNo pipelining buys
// over a single socket, reporting calls/sec and p50/p99 latency — the
// same shape as the ambient stack's own bench tool, repurposed from key
// sharding to refNo pipelining.
package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petli/node-lyskom-client"
)

func main() {
	var (
		addr        = flag.String("addr", "localhost:4894", "LysKOM server address")
		duration    = flag.Duration("duration", 5*time.Second, "how long to run")
		concurrency = flag.Int("concurrency", 32, "number of concurrent in-flight get-time calls")
	)
	flag.Parse()

	fmt.Println("LysKOM Pipelining Benchmark")
	fmt.Println("===========================")
	fmt.Printf("Server: %s\n", *addr)
	fmt.Printf("Duration: %v\n", *duration)
	fmt.Printf("Concurrency: %d\n\n", *concurrency)

	ctx := context.Background()
	sess, err := lyskom.Connect(ctx, *addr, lyskom.WithMaxInFlight(*concurrency*2))
	if err != nil {
		fmt.Println("connect failed:", err)
		return
	}
	defer sess.Close()

	var totalOps int64
	var failures int64
	var latenciesMu sync.Mutex
	var latencies []time.Duration

	startTime := time.Now()
	deadline := startTime.Add(*duration)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(deadline) {
				opStart := time.Now()
				_, err := sess.Call(ctx, "get-time", nil)
				latency := time.Since(opStart)

				atomic.AddInt64(&totalOps, 1)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				latenciesMu.Lock()
				latencies = append(latencies, latency)
				latenciesMu.Unlock()
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Printf("Total calls: %d\n", totalOps)
	fmt.Printf("Failures: %d\n", failures)
	fmt.Printf("Calls/sec: %.1f\n", float64(totalOps)/elapsed.Seconds())
	if len(latencies) > 0 {
		fmt.Printf("p50 latency: %v\n", percentile(latencies, 0.50))
		fmt.Printf("p99 latency: %v\n", percentile(latencies, 0.99))
	}

	stats := sess.Stats()
	fmt.Printf("\nSession stats: calls=%d errors=%d protocol_errors=%d\n", stats.Calls, stats.CallErrors, stats.ProtocolErrors)
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
