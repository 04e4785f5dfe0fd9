package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	cfgpkg "github.com/KaramelBytes/tuplegen/internal/config"
	"github.com/KaramelBytes/tuplegen/internal/dataset"
	"github.com/KaramelBytes/tuplegen/internal/manifest"
	"github.com/KaramelBytes/tuplegen/internal/metrics"
	"github.com/KaramelBytes/tuplegen/internal/report"
	"github.com/KaramelBytes/tuplegen/internal/sink"
	"github.com/KaramelBytes/tuplegen/internal/utils"
	"github.com/spf13/cobra"
)

var knownSinks = map[string]bool{
	sink.NameStdout:   true,
	sink.NameCSV:      true,
	sink.NameJSON:     true,
	sink.NameSQLite:   true,
	sink.NamePostgres: true,
	sink.NameS3:       true,
}

// parseSinkList splits a comma-separated sink list, lowercases and dedupes it.
func parseSinkList(s string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" || seen[name] {
			continue
		}
		if !knownSinks[name] {
			return nil, fmt.Errorf("%w: %q", sink.ErrUnknownSink, name)
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty sink list", sink.ErrUnknownSink)
	}
	return out, nil
}

// runOptions is the resolved output side of a generate run.
type runOptions struct {
	Sinks       []string
	OutDir      string
	JSONPath    string
	Summary     bool
	MetricsFile string
	NoManifest  bool
}

// resolveRunOptions merges generate flags over config values.
func resolveRunOptions(cmd *cobra.Command, c *cfgpkg.Global) (runOptions, error) {
	opts := runOptions{
		Sinks:       c.Sinks,
		OutDir:      c.OutDir,
		JSONPath:    genJSONPath,
		Summary:     genSummary,
		MetricsFile: c.MetricsTextfile,
		NoManifest:  genNoManifest,
	}
	if cmd.Flags().Changed("sink") {
		names, err := parseSinkList(genSinks)
		if err != nil {
			return opts, err
		}
		opts.Sinks = names
	} else if len(opts.Sinks) > 0 {
		names, err := parseSinkList(strings.Join(opts.Sinks, ","))
		if err != nil {
			return opts, fmt.Errorf("config sinks: %w", err)
		}
		opts.Sinks = names
	} else {
		opts.Sinks = []string{sink.NameStdout}
	}
	if cmd.Flags().Changed("out-dir") {
		opts.OutDir = genOutDir
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if cmd.Flags().Changed("metrics-file") {
		opts.MetricsFile = genMetricsFile
	}
	var err error
	if opts.OutDir, err = utils.ExpandHome(opts.OutDir); err != nil {
		return opts, err
	}
	if opts.JSONPath == "" {
		opts.JSONPath = filepath.Join(opts.OutDir, "dataset.json")
	} else if opts.JSONPath, err = utils.ExpandHome(opts.JSONPath); err != nil {
		return opts, err
	}
	if opts.MetricsFile != "" {
		if opts.MetricsFile, err = utils.ExpandHome(opts.MetricsFile); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// sinkDeps allows tests to stub out database and object-store constructors.
type sinkDeps struct {
	openSQLite   func(path, prefix string) (sink.Sink, error)
	openPostgres func(ctx context.Context, dsn, prefix string) (sink.Sink, error)
	newS3        func(ctx context.Context, cfg sink.S3Config) (sink.Sink, error)
}

var defaultSinkDeps = sinkDeps{
	openSQLite: func(path, prefix string) (sink.Sink, error) {
		return sink.OpenSQLite(path, prefix)
	},
	openPostgres: func(ctx context.Context, dsn, prefix string) (sink.Sink, error) {
		return sink.OpenPostgres(ctx, dsn, prefix)
	},
	newS3: func(ctx context.Context, cfg sink.S3Config) (sink.Sink, error) {
		return sink.NewS3(ctx, cfg)
	},
}

// buildSinks constructs the requested sinks. On failure it closes whatever was already opened.
func buildSinks(ctx context.Context, names []string, c *cfgpkg.Global, opts runOptions, out io.Writer, deps sinkDeps) ([]sink.Sink, error) {
	var sinks []sink.Sink
	fail := func(err error) ([]sink.Sink, error) {
		_ = sink.CloseAll(sinks)
		return nil, err
	}
	for _, name := range names {
		switch name {
		case sink.NameStdout:
			sinks = append(sinks, sink.StdoutSink{W: out})
		case sink.NameCSV:
			sinks = append(sinks, sink.CSVSink{Dir: opts.OutDir})
		case sink.NameJSON:
			sinks = append(sinks, sink.JSONSink{Path: opts.JSONPath})
		case sink.NameSQLite:
			path, err := utils.ExpandHome(c.SQLitePath)
			if err != nil {
				return fail(err)
			}
			s, err := deps.openSQLite(path, c.TablePrefix)
			if err != nil {
				return fail(err)
			}
			sinks = append(sinks, s)
		case sink.NamePostgres:
			if c.PostgresDSN == "" {
				return fail(fmt.Errorf("postgres sink requires postgres_dsn (tuplegen config set postgres_dsn ...)"))
			}
			s, err := deps.openPostgres(ctx, c.PostgresDSN, c.TablePrefix)
			if err != nil {
				return fail(err)
			}
			sinks = append(sinks, s)
		case sink.NameS3:
			s, err := deps.newS3(ctx, sink.S3Config{
				Bucket:          c.S3Bucket,
				Region:          c.S3Region,
				Endpoint:        c.S3Endpoint,
				Prefix:          c.S3Prefix,
				PathStyle:       c.S3PathStyle,
				AccessKeyID:     c.S3AccessKeyID,
				SecretAccessKey: c.S3SecretAccessKey,
			})
			if err != nil {
				return fail(err)
			}
			sinks = append(sinks, s)
		default:
			return fail(fmt.Errorf("%w: %q", sink.ErrUnknownSink, name))
		}
	}
	return sinks, nil
}

// publish writes ds to every configured sink, then records the manifest and metrics.
func publish(cmd *cobra.Command, ds *dataset.Dataset, categories int, took time.Duration) error {
	return publishWith(cmd, ds, categories, took, defaultSinkDeps)
}

func publishWith(cmd *cobra.Command, ds *dataset.Dataset, categories int, took time.Duration, deps sinkDeps) (retErr error) {
	if err := ds.Validate(); err != nil {
		return err
	}
	c := effectiveConfig()
	opts, err := resolveRunOptions(cmd, c)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger.Debugw("publishing dataset", "id", ds.ID, "kind", ds.Kind, "sinks", opts.Sinks, "rows", ds.RowCounts())

	sinks, err := buildSinks(ctx, opts.Sinks, c, opts, out, deps)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.CloseAll(sinks); err != nil && retErr == nil {
			retErr = fmt.Errorf("close sinks: %w", err)
		}
	}()

	rec := metrics.New()
	rec.ObserveDataset(ds.Kind, ds.RowCounts(), categories, took)
	m := manifest.FromDataset(ds)

	var firstErr error
	for _, s := range sinks {
		locs, err := s.Write(ctx, ds)
		rec.ObserveSink(s.Name(), err)
		logger.Debugw("sink write", "sink", s.Name(), "locations", locs, "error", err)
		if err != nil {
			fmt.Fprintf(errOut, "✗ %s sink failed: %v\n", s.Name(), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s sink: %w", s.Name(), err)
			}
			continue
		}
		m.AddOutput(s.Name(), locs)
		if s.Name() != sink.NameStdout {
			fmt.Fprintf(errOut, "✓ Wrote %s: %s\n", s.Name(), strings.Join(locs, ", "))
		}
	}

	if opts.Summary {
		rep, err := report.Summarize(ds, report.DefaultOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rep.Markdown())
	}

	if !opts.NoManifest {
		runsDir, err := utils.ExpandHome(c.RunsDir)
		if err != nil {
			return err
		}
		path, err := m.Save(runsDir)
		if err != nil {
			fmt.Fprintf(errOut, "⚠ Warning: failed to save run manifest: %v\n", err)
		} else {
			fmt.Fprintf(errOut, "✓ Run %s recorded (%s)\n", ds.ID, path)
		}
	}

	if opts.MetricsFile != "" {
		if err := rec.WriteTextfile(opts.MetricsFile); err != nil {
			fmt.Fprintf(errOut, "⚠ Warning: %v\n", err)
		} else {
			logger.Debugw("metrics written", "path", opts.MetricsFile)
		}
	}
	return firstErr
}
