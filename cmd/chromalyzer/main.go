// Command chromalyzer runs peak detection over chromatogram files and prints
// a report per file. Directories are expanded to the supported files they hold
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"chromalyzer/internal/adapters/tracesource"
	"chromalyzer/internal/core/summary"
	"chromalyzer/internal/core/version"
	"chromalyzer/internal/modkit"
	"chromalyzer/internal/modkit/module"
	"chromalyzer/internal/platform/config"
	"chromalyzer/internal/platform/logger"
	"chromalyzer/internal/platform/store"
	"chromalyzer/internal/services/analysis/domain"
	analysismod "chromalyzer/internal/services/analysis/module"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logger.Get().Error().Err(err).Msg("chromalyzer failed")
		}
		os.Exit(1)
	}
}

// run is main without the process exit; out receives the reports
func run(ctx context.Context, args []string, out io.Writer) error {
	root := config.New()
	opts, err := analysismod.FromConfig(root)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("chromalyzer", flag.ContinueOnError)
	var (
		fTop      = fs.Int("top", 0, "print only the N highest peaks instead of the full report")
		fWorkers  = fs.Int("workers", runtime.NumCPU(), "files analyzed concurrently")
		fStore    = fs.String("store", opts.Store, "record store: file | sqlite | pg | none")
		fDir      = fs.String("json-dir", opts.JSONDir, "directory for file store records")
		fPersist  = fs.Bool("persist", opts.Persist, "save a record per analyzed file")
		fDiagnose = fs.Bool("diagnose", false, "ask the diagnosis service for advice (needs CORE_RAG_URL)")
		fMeta     = fs.String("metadata", "", "free text forwarded to diagnosis")
		fLitePath = fs.String("sqlite", root.Prefix("SERVICE_SQLITE_").MayString("PATH", "data/chromalyzer.db"), "sqlite database path")
		fVersion  = fs.Bool("version", false, "print the build version and exit")
	)
	fs.Float64Var(&opts.Detector.HeightPercentile, "height", opts.Detector.HeightPercentile, "height threshold percentile")
	fs.Float64Var(&opts.Detector.ProminencePercentile, "prominence", opts.Detector.ProminencePercentile, "prominence threshold percentile")
	fs.IntVar(&opts.Detector.MinDistance, "min-distance", opts.Detector.MinDistance, "minimum samples between peaks")
	fs.Float64Var(&opts.Detector.RelHeight, "rel-height", opts.Detector.RelHeight, "relative height for peak windows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fVersion {
		_, err := fmt.Fprintln(out, version.Info())
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no input files")
	}
	if *fWorkers < 1 {
		*fWorkers = 1
	}
	opts.Store, opts.JSONDir = strings.ToLower(*fStore), *fDir

	files, err := expand(fs.Args())
	if err != nil {
		return err
	}

	st, err := openBackends(ctx, root, opts.Store, *fLitePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	m, err := analysismod.NewWithOptions(modkit.Deps{Cfg: root, PG: st.PG, Lite: st.Lite, CH: st.CH}, opts)
	if err != nil {
		return err
	}
	svc := module.MustPortsOf[domain.ServicePort](m)

	results := make([]outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*fWorkers)
	for i, path := range files {
		g.Go(func() error {
			results[i] = analyzeFile(gctx, svc, path, domain.Request{
				Metadata: *fMeta,
				Persist:  *fPersist,
				Diagnose: *fDiagnose,
			})
			// a cancelled run stops scheduling; per file failures do not
			return gctx.Err()
		})
	}
	runErr := g.Wait()

	failed := 0
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if !report(out, files[i], r, *fTop) {
			failed++
		}
	}
	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

type outcome struct {
	res domain.Result
	err error
}

func analyzeFile(ctx context.Context, svc domain.ServicePort, path string, req domain.Request) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{err: err}
	}
	fi, err := os.Stat(path)
	if err != nil {
		return outcome{err: err}
	}
	if fi.Size() > tracesource.MaxFileBytes {
		return outcome{err: fmt.Errorf("%s: file exceeds %d bytes", path, tracesource.MaxFileBytes)}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return outcome{err: err}
	}
	res, err := svc.AnalyzeFile(ctx, filepath.Base(path), b, req)
	return outcome{res: res, err: err}
}

// report writes one file's section and reports whether it succeeded
func report(out io.Writer, path string, r outcome, top int) bool {
	fmt.Fprintf(out, "== %s ==\n", path)
	if r.err != nil {
		fmt.Fprintf(out, "error: %v\n", r.err)
		return false
	}
	res := r.res
	switch {
	case top > 0 && res.Summary != nil:
		fmt.Fprintln(out, summary.TopPeaks(res.Summary.Peaks, top))
	default:
		fmt.Fprintln(out, res.Report)
	}
	if res.Stored {
		fmt.Fprintf(out, "saved: %s\n", res.Key)
	}
	if res.Advice != nil {
		fmt.Fprintf(out, "\nDiagnosis:\n%s\n\nTroubleshooting:\n%s\n", res.Advice.Diagnosis, res.Advice.Troubleshooting)
	}
	if res.AdviceError != "" {
		fmt.Fprintf(out, "diagnosis unavailable: %s\n", res.AdviceError)
	}
	return true
}

// expand replaces directories with the supported files directly inside them
func expand(args []string) ([]string, error) {
	var files []string
	for _, a := range args {
		fi, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			files = append(files, a)
			continue
		}
		entries, err := os.ReadDir(a)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && tracesource.Supported(e.Name()) {
				found = append(found, filepath.Join(a, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, errors.New("no supported trace files found")
	}
	return files, nil
}

// openBackends opens only what the chosen record store and ledger need
func openBackends(ctx context.Context, root config.Conf, backend, litePath string) (*store.Store, error) {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chURL := root.Prefix("SERVICE_CLICKHOUSE_").MayString("DBURL", "")
	return store.Open(ctx, store.Config{
		AppName: "chromalyzer",
		PG: store.PGConfig{
			URL:      pgCfg.MayString("DBURL", ""),
			MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 4)),
			LogSQL:   pgCfg.MayBool("LOG_SQL", false),
		},
		SQLite: store.SQLiteConfig{
			Path: litePath,
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "chromalyzer",
		},
	}, store.WithLogger(*logger.Get()), store.WithRecordStore(backend))
}
