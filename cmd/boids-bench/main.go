package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"boids/internal/app"
	"boids/internal/core"
	"boids/internal/flock"
)

type scenario struct {
	count    int
	strategy core.Strategy
}

type result struct {
	scenario
	frames int
	total  time.Duration
	phases [flock.PhaseDispatch]time.Duration
}

func (r result) mean(d time.Duration) float64 {
	if r.frames == 0 {
		return 0
	}
	return float64(d) / float64(r.frames) / float64(time.Millisecond)
}

func parseCounts(s string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid agent count %q", field)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no agent counts given")
	}
	return counts, nil
}

func parseStrategies(s string) ([]core.Strategy, error) {
	var out []core.Strategy
	for _, field := range strings.Split(s, ",") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		st, err := core.ParseStrategy(field)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if len(out) == 0 {
		return core.Strategies(), nil
	}
	return out, nil
}

func runScenario(base flock.Config, sc scenario, warmup, frames int) (result, error) {
	cfg := base
	cfg.Count = sc.count
	sim, err := flock.New(cfg)
	if err != nil {
		return result{}, err
	}
	defer sim.Close()

	for range warmup {
		sim.Step(cfg.DT, sc.strategy)
	}
	res := result{scenario: sc, frames: frames}
	for range frames {
		sim.Step(cfg.DT, sc.strategy)
		stats := sim.Stats()
		res.total += stats.Total
		for p := range res.phases {
			res.phases[p] += stats.Duration(flock.Phase(p))
		}
	}
	return res, nil
}

func main() {
	countsFlag := flag.String("n", "1000,5000,20000", "comma-separated agent counts")
	strategiesFlag := flag.String("strategies", "naive,scattered,coherent", "comma-separated strategies")
	frames := flag.Int("frames", 100, "measured frames per scenario")
	warmup := flag.Int("warmup", 10, "unmeasured frames before timing")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "worker goroutines per phase")
	configFile := flag.String("config", "", "flock config file (gcfg format)")
	var overrides app.KVList
	flag.Var(&overrides, "set", "flock parameter override in key=value form (repeatable)")
	flag.Parse()

	counts, err := parseCounts(*countsFlag)
	if err != nil {
		log.Fatal(err)
	}
	strategies, err := parseStrategies(*strategiesFlag)
	if err != nil {
		log.Fatal(err)
	}

	base := flock.DefaultConfig()
	if *configFile != "" {
		if base, err = flock.ReadConfigFile(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	base = base.WithOverrides(overrides.Map())
	base.Workers = *workers
	if err := base.Validate(); err != nil {
		log.Fatal(err)
	}

	var scenarios []scenario
	for _, n := range counts {
		for _, st := range strategies {
			scenarios = append(scenarios, scenario{count: n, strategy: st})
		}
	}
	fmt.Printf("Sweeping %d scenarios (%d workers, %d frames, %d warmup)\n", len(scenarios), *workers, *frames, *warmup)

	start := time.Now()
	results := make([]result, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := runScenario(base, sc, *warmup, *frames)
		if err != nil {
			log.Fatalf("n=%d %s: %v", sc.count, sc.strategy, err)
		}
		slog.Info("scenario done", "n", sc.count, "strategy", sc.strategy, "ms_per_frame", res.mean(res.total))
		results = append(results, res)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	header := []string{"agents", "strategy", "frame"}
	for p := range flock.PhaseDispatch {
		header = append(header, p.String())
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, res := range results {
		row := []string{strconv.Itoa(res.count), string(res.strategy), fmt.Sprintf("%.3f", res.mean(res.total))}
		for _, d := range res.phases {
			row = append(row, fmt.Sprintf("%.3f", res.mean(d)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	tw.Flush()
	fmt.Printf("\nAll times in ms per frame (elapsed %s)\n", time.Since(start).Round(time.Millisecond))
}
