package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	cloth "github.com/Alexander-r/cloth.go"
	"github.com/Alexander-r/cloth.go/internal/clothflags"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// result is the state of one cloth after the sweep's ticks.
type result struct {
	Iterations      int
	StretchResidual float64
	BendResidual    float64
	LowestY         float64
	DampingSkips    int
	SkippedStretch  int
	SkippedBend     int
}

func parseIterations(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(err, "iteration count %q", field)
		}
		if n < 0 {
			return nil, errors.Errorf("iteration count %d is negative", n)
		}
		out = append(out, n)
	}
	return out, nil
}

func simulate(ctx context.Context, def cloth.PbdClothDef, dt float64, ticks int) (result, error) {
	res := result{Iterations: def.Tuning.Iterations}

	c := cloth.MakePbdCloth()
	if err := c.Create(&def); err != nil {
		return res, err
	}
	defer c.Destroy()

	for tick := 0; tick < ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		report, err := c.Step(dt)
		if err != nil {
			return res, errors.Wrapf(err, "iterations %d, tick %d", def.Tuning.Iterations, tick)
		}

		if !report.DampingApplied {
			res.DampingSkips++
		}
		res.SkippedStretch += report.SkippedStretch
		res.SkippedBend += report.SkippedBend
	}

	res.StretchResidual = c.StretchResidual()
	res.BendResidual = c.BendResidual()

	res.LowestY = 0
	for i, p := range c.GetPositions(nil) {
		if i == 0 || p.Y() < res.LowestY {
			res.LowestY = p.Y()
		}
	}

	return res, nil
}

// sweep runs one independent cloth per iteration count. Results come back in
// the order of iterations.
func sweep(ctx context.Context, def cloth.PbdClothDef, dt float64, ticks int, iterations []int) ([]result, error) {
	results := make([]result, len(iterations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, n := range iterations {
		d := def
		d.Tuning.Iterations = n

		g.Go(func() error {
			res, err := simulate(ctx, d, dt, ticks)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func printResults(w io.Writer, results []result) {
	fmt.Fprintf(w, "%10s %16s %16s %10s %8s %8s %8s\n",
		"iterations", "stretch", "bend", "lowest y", "damp", "stretch", "bend")
	for _, r := range results {
		fmt.Fprintf(w, "%10d %16.6e %16.6e %10.4f %8d %8d %8d\n",
			r.Iterations, r.StretchResidual, r.BendResidual, r.LowestY,
			r.DampingSkips, r.SkippedStretch, r.SkippedBend)
	}
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg := clothflags.Bind(fs)
	sweepFlag := fs.String("sweep", "1,2,4,8,16,32", "comma-separated iteration counts to compare")
	fs.Parse(os.Args[1:])

	def, err := cfg.Resolve()
	if err != nil {
		log.Fatal(err)
	}

	iterations, err := parseIterations(*sweepFlag)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sweep(ctx, def, cfg.Dt, cfg.Ticks, iterations)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("edge %d, %d ticks of %gs\n", def.EdgeCount, cfg.Ticks, cfg.Dt)
	printResults(os.Stdout, results)
}
