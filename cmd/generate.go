package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/tuplegen/internal/dataset"
	"github.com/KaramelBytes/tuplegen/internal/tuples"
	"github.com/spf13/cobra"
)

var (
	// Shared generate flags
	genCount       int
	genSeed        uint64
	genSinks       string
	genOutDir      string
	genJSONPath    string
	genSummary     bool
	genMetricsFile string
	genNoManifest  bool

	// categorical
	catYLow, catYHigh int
	catZLow, catZHigh int

	// parallel
	parYLow, parYHigh int
	parZLow, parZHigh int
	parStep           int
	parYRepeat        int
	parZRepeat        int

	// punchcard
	pcYStart, pcYStop, pcYStep int
	pcZLow, pcZHigh            float64

	// nested
	nestYValues string
	nestZLow    float64
	nestZHigh   float64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic tuple dataset",
	Example: `  tuplegen generate categorical -n 50 --y-high 100 --z-high 6
  tuplegen generate categorical --seed 7 --sink csv,sqlite --out-dir data
  tuplegen generate punchcard -n 200 --sink json --json-path punchcard.json
  tuplegen generate parallel --y-low 100 --y-high 1000 --summary
  tuplegen generate nested --y-values 100,200,300 --sink s3`,
}

var generateCategoricalCmd = &cobra.Command{
	Use:   "categorical",
	Short: "Tuples (x, y, zid) plus a (zid, z) category table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, seed := countAndSeed(cmd)
		yr := tuples.Range{Low: catYLow, High: catYHigh}
		zr := tuples.Range{Low: catZLow, High: catZHigh}
		start := time.Now()
		samples, table, err := tuples.GenerateCategorical(tuples.NewLCG(seed), n, yr, zr)
		if err != nil {
			return err
		}
		ds := dataset.New(dataset.KindCategorical, seed, map[string]any{
			"count": n, "y_low": yr.Low, "y_high": yr.High, "z_low": zr.Low, "z_high": zr.High,
		})
		ds.AddCategorical(samples, table)
		return publish(cmd, ds, len(table), time.Since(start))
	},
}

var generatePunchcardCmd = &cobra.Command{
	Use:   "punchcard",
	Short: "Tuples (x, y, z) with y on a fixed grid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, seed := countAndSeed(cmd)
		opt := tuples.PunchcardOptions{YStart: pcYStart, YStop: pcYStop, YStep: pcYStep, ZLow: pcZLow, ZHigh: pcZHigh}
		start := time.Now()
		samples, err := tuples.GeneratePunchcard(tuples.NewLCG(seed), n, opt)
		if err != nil {
			return err
		}
		ds := dataset.New(dataset.KindPunchcard, seed, map[string]any{
			"count": n, "y_start": opt.YStart, "y_stop": opt.YStop, "y_step": opt.YStep, "z_low": opt.ZLow, "z_high": opt.ZHigh,
		})
		ds.AddSamples(samples)
		return publish(cmd, ds, 0, time.Since(start))
	},
}

var generateParallelCmd = &cobra.Command{
	Use:   "parallel",
	Short: "Tuples (x, y, z) drawn from shuffled, balanced pools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, seed := countAndSeed(cmd)
		yr := tuples.Range{Low: parYLow, High: parYHigh}
		zr := tuples.Range{Low: parZLow, High: parZHigh}
		opt := tuples.ParallelOptions{Step: parStep, YRepeat: parYRepeat, ZRepeat: parZRepeat}
		start := time.Now()
		samples, err := tuples.GenerateParallelCoord(tuples.NewLCG(seed), n, yr, zr, opt)
		if err != nil {
			return err
		}
		ds := dataset.New(dataset.KindParallel, seed, map[string]any{
			"count": n, "y_low": yr.Low, "y_high": yr.High, "z_low": zr.Low, "z_high": zr.High,
			"step": opt.Step, "y_repeat": opt.YRepeat, "z_repeat": opt.ZRepeat,
		})
		ds.AddSamples(samples)
		return publish(cmd, ds, 0, time.Since(start))
	},
}

var generateNestedCmd = &cobra.Command{
	Use:   "nested",
	Short: "Tuples (x, y, z) with y chosen from an explicit list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, seed := countAndSeed(cmd)
		ys, err := parseIntList(nestYValues)
		if err != nil {
			return fmt.Errorf("invalid --y-values: %w", err)
		}
		start := time.Now()
		samples, err := tuples.GenerateNested(tuples.NewLCG(seed), n, ys, nestZLow, nestZHigh)
		if err != nil {
			return err
		}
		ds := dataset.New(dataset.KindNested, seed, map[string]any{
			"count": n, "y_values": ys, "z_low": nestZLow, "z_high": nestZHigh,
		})
		ds.AddSamples(samples)
		return publish(cmd, ds, 0, time.Since(start))
	},
}

// countAndSeed prefers explicit flags over config values.
func countAndSeed(cmd *cobra.Command) (int, uint64) {
	c := effectiveConfig()
	n, seed := c.Count, c.Seed
	if cmd.Flags().Changed("count") {
		n = genCount
	}
	if cmd.Flags().Changed("seed") {
		seed = genSeed
	}
	logger.Debugw("generate", "kind", cmd.Name(), "count", n, "seed", seed)
	return n, seed
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generateCategoricalCmd, generatePunchcardCmd, generateParallelCmd, generateNestedCmd)

	pf := generateCmd.PersistentFlags()
	pf.IntVarP(&genCount, "count", "n", 50, "number of tuples to generate (overrides config)")
	pf.Uint64Var(&genSeed, "seed", 42, "random seed (overrides config)")
	pf.StringVar(&genSinks, "sink", "", "comma-separated sinks: stdout|csv|json|sqlite|postgres|s3 (overrides config)")
	pf.StringVarP(&genOutDir, "out-dir", "o", "", "directory for the csv sink (overrides config)")
	pf.StringVar(&genJSONPath, "json-path", "", "file for the json sink (default <out-dir>/dataset.json)")
	pf.BoolVar(&genSummary, "summary", false, "print a dataset summary after writing")
	pf.StringVar(&genMetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile (overrides config)")
	pf.BoolVar(&genNoManifest, "no-manifest", false, "do not record the run in the runs directory")

	cf := generateCategoricalCmd.Flags()
	cf.IntVar(&catYLow, "y-low", 0, "lower bound of y (inclusive)")
	cf.IntVar(&catYHigh, "y-high", 100, "upper bound of y (exclusive)")
	cf.IntVar(&catZLow, "z-low", 0, "lower bound of z (inclusive)")
	cf.IntVar(&catZHigh, "z-high", 6, "upper bound of z (exclusive)")

	def := tuples.DefaultParallelOptions()
	pl := generateParallelCmd.Flags()
	pl.IntVar(&parYLow, "y-low", 100, "first y grid value")
	pl.IntVar(&parYHigh, "y-high", 1000, "last y grid value (inclusive)")
	pl.IntVar(&parZLow, "z-low", 100, "first z grid value")
	pl.IntVar(&parZHigh, "z-high", 1000, "last z grid value (inclusive)")
	pl.IntVar(&parStep, "step", def.Step, "grid step for y and z")
	pl.IntVar(&parYRepeat, "y-repeat", def.YRepeat, "copies of each y value in the pool")
	pl.IntVar(&parZRepeat, "z-repeat", def.ZRepeat, "copies of each z value in the pool")

	pc := tuples.DefaultPunchcardOptions()
	pf2 := generatePunchcardCmd.Flags()
	pf2.IntVar(&pcYStart, "y-start", pc.YStart, "first y grid value")
	pf2.IntVar(&pcYStop, "y-stop", pc.YStop, "last y grid value (inclusive)")
	pf2.IntVar(&pcYStep, "y-step", pc.YStep, "y grid step")
	pf2.Float64Var(&pcZLow, "z-low", pc.ZLow, "lower bound of the z draw")
	pf2.Float64Var(&pcZHigh, "z-high", pc.ZHigh, "upper bound of the z draw (exclusive)")

	nf := generateNestedCmd.Flags()
	nf.StringVar(&nestYValues, "y-values", "100,200,300,400,500,600", "comma-separated y values to choose from")
	nf.Float64Var(&nestZLow, "z-low", 0.1, "lower bound of the z draw")
	nf.Float64Var(&nestZHigh, "z-high", 1000, "upper bound of the z draw (exclusive)")
}
