// Command semabench drives the sema, rendezvous, and notifylist
// primitives under configurable load and reports how long goroutines
// spent parked, from a flag-configured main().
package main

import (
	"flag"
	"log"
	"sort"
	"sync"
	"time"
	"unsafe"

	"github.com/qxcheng/sleepwake/pkg/notifylist"
	"github.com/qxcheng/sleepwake/pkg/profiling"
	"github.com/qxcheng/sleepwake/pkg/rendezvous"
	"github.com/qxcheng/sleepwake/pkg/sema"
)

func main() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	goroutines := flag.Int("n", 32, "acquirer/releaser goroutines per component")
	rounds := flag.Int("rounds", 2000, "acquire/release rounds per goroutine")
	rate := flag.Int64("profile-rate", 1, "block-profile rate; 0 disables profiling")
	flag.Parse()

	checkSizes()

	profiling.Rate.Store(*rate)

	log.Printf("sema: %d goroutines x %d rounds", *goroutines, *rounds)
	semaHist := runSemaBenchmark(*goroutines, *rounds)
	report("sema", semaHist)

	log.Printf("rendezvous: %d goroutines x %d rounds", *goroutines, *rounds)
	runRendezvousBenchmark(*goroutines, *rounds)

	log.Printf("notifylist: %d goroutines x %d rounds", *goroutines, *rounds)
	notifyHist := runNotifyListBenchmark(*goroutines, *rounds)
	report("notifylist", notifyHist)
}

// checkSizes reproduces, at the one place in this repo that owns
// main(), the abort-on-mismatch contract each component's SizeCheck is
// built for: an embedder that mirrors one of these structs in an opaque
// byte array must catch layout drift before it corrupts memory, not
// after.
func checkSizes() {
	if err := sema.SizeCheck(sema.BucketSize()); err != nil {
		log.Fatal(err)
	}
	if err := rendezvous.SizeCheck(unsafe.Sizeof(rendezvous.Sema{})); err != nil {
		log.Fatal(err)
	}
	if err := notifylist.SizeCheck(unsafe.Sizeof(notifylist.List{})); err != nil {
		log.Fatal(err)
	}
}

func runSemaBenchmark(n, rounds int) *profiling.Histogram {
	hist := profiling.NewHistogram()
	counter := uint32(n)

	var wg sync.WaitGroup
	wg.Add(n)
	start := time.Now()
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				sema.Acquire(&counter, true, hist)
				sema.Release(&counter)
			}
		}()
	}
	wg.Wait()
	log.Printf("sema: %d total ops in %s", n*rounds*2, time.Since(start))
	return hist
}

func runRendezvousBenchmark(n, rounds int) {
	s := rendezvous.New()
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				s.Acquire()
			}
		}()
	}
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				s.Release(1)
			}
		}()
	}
	wg.Wait()
	log.Printf("rendezvous: %d rendezvous pairs in %s", n*rounds, time.Since(start))
}

func runNotifyListBenchmark(n, rounds int) *profiling.Histogram {
	hist := profiling.NewHistogram()
	list := notifylist.New()
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				ticket := list.Add()
				list.Wait(ticket, hist)
			}
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	for {
		select {
		case <-done:
			log.Printf("notifylist: %d waits notified in %s", n*rounds, time.Since(start))
			return hist
		case <-time.After(time.Millisecond):
			list.NotifyAll()
		}
	}
}

func report(name string, h *profiling.Histogram) {
	snap := h.Snapshot()
	keys := make([]int, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	log.Printf("%s: %d block events recorded", name, h.Count())
	for _, k := range keys {
		log.Printf("%s: bucket 2^%-2d ns: %d", name, k, snap[k])
	}
}
