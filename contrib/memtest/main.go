// memtest drives a pool through waves of allocations and deallocations of random sizes and
// reports how much memory the pool holds from the system allocator.
//
//	go run ./contrib/memtest -config "system=mmap; metrics=true" -duration 30s
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"github.com/dustin/go-humanize"

	"github.com/tinywheels/mempool"
	"github.com/tinywheels/mempool/z"
)

var (
	config   = flag.String("config", "metrics=true", "Pool options, see below.")
	duration = flag.Duration("duration", 10*time.Second, "How long to run.")
	maxElems = flag.Int("max-elems", 64, "Largest request in elements.")
	lo       = flag.Int64("lo", 1<<20, "Start allocating again below this many bytes.")
	hi       = flag.Int64("hi", 64<<20, "Start freeing above this many bytes.")
	pprof    = flag.String("pprof", "", "Serve pprof on this address.")

	increase = true
	stop     int32
)

type record struct {
	key uint64
	val [3]float64
}

func memory(p *mempool.Pool[record], held int64) {
	if increase {
		if held > *hi {
			increase = false
		}
	} else if held < *lo {
		increase = true
	}
	fmt.Printf("Held: %s System: %s %s. Increase? %v\n", humanize.IBytes(uint64(held)),
		humanize.IBytes(uint64(z.NumAllocBytes())), p.Stats(), increase)
}

func run(p *mempool.Pool[record]) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(*duration)

	var slices [][]record
	var held int64
	recordSz := int64(unsafe.Sizeof(record{}))
	for i := 0; atomic.LoadInt32(&stop) == 0; i++ {
		select {
		case <-deadline:
			atomic.StoreInt32(&stop, 1)
			continue
		case <-ticker.C:
		}
		for j := 0; j < 100; j++ {
			if increase {
				n := rand.Intn(*maxElems) + 1
				s, err := p.Allocate(n)
				if err != nil {
					return err
				}
				p.ConstructFunc(s, n, func(k int, r *record) { r.key = uint64(k) })
				slices = append(slices, s)
				held += int64(cap(s)) * recordSz
			} else if len(slices) > 0 {
				idx := rand.Intn(len(slices))
				s := slices[idx]
				slices[idx] = slices[len(slices)-1]
				slices = slices[:len(slices)-1]
				p.Destruct(s, len(s))
				if err := p.Free(s); err != nil {
					return err
				}
				held -= int64(cap(s)) * recordSz
			}
		}
		if i%100 == 0 {
			memory(p, held)
		}
	}
	for _, s := range slices {
		if err := p.Free(s); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\nPool options:\n%s", mempool.FlagHelp)
	}
	flag.Parse()
	z.StatsPrint()

	cfg, err := mempool.ParseConfig(*config)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	p, err := mempool.New[record](cfg)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("Stopping")
		atomic.StoreInt32(&stop, 1)
	}()
	if *pprof != "" {
		go func() {
			if err := http.ListenAndServe(*pprof, nil); err != nil {
				log.Fatalf("Error: %v", err)
			}
		}()
	}

	start := z.NumAllocBytes()
	if err := run(p); err != nil {
		log.Fatalf("%+v", err)
	}
	fmt.Println(p.Metrics())
	if err := p.Teardown(); err != nil {
		log.Fatalf("%+v", err)
	}
	if left := z.NumAllocBytes() - start; left != 0 {
		log.Fatalf("Unable to deallocate all memory: %v\n", left)
	}
	fmt.Println("Done. Reduced to zero memory usage.")
}
