package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-feed/internal/feed"
	"github.com/pdiddy/paper-feed/internal/httputil"
	"github.com/pdiddy/paper-feed/internal/ingest"
	"github.com/pdiddy/paper-feed/internal/render"
	"github.com/pdiddy/paper-feed/internal/snapshot"
	"github.com/pdiddy/paper-feed/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch every source, merge into the cache, and render the site",
	Long: `Run performs one full cycle: load the previous snapshot from cache_url
(an unreadable or malformed cache starts empty), fetch each configured
source, insert the papers whose day falls inside the retention window, drop
days that aged out, then write cache.json, the rendered page, and the
view.yaml / view.json exports into target_dir.

A source that cannot be fetched or parsed aborts the run before anything
is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = runPipeline(cmd.Context(), cfg, logger)
		return err
	},
}

func init() {
	runCmd.Flags().Int("limit-days", 0, "retention window in days (overrides limit_days)")
	runCmd.Flags().String("target-dir", "", "output directory (overrides target_dir)")
	runCmd.Flags().String("cache-url", "", "previous snapshot location (overrides cache_url)")
	runCmd.Flags().Int("concurrency", 0, "max in-flight feed fetches (overrides concurrency)")

	bindFlag("limit_days", runCmd, "limit-days")
	bindFlag("target_dir", runCmd, "target-dir")
	bindFlag("cache_url", runCmd, "cache-url")
	bindFlag("concurrency", runCmd, "concurrency")

	rootCmd.AddCommand(runCmd)
}

// bindFlag lets an explicitly set flag override the config key.
func bindFlag(key string, cmd *cobra.Command, name string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
		panic(fmt.Sprintf("binding --%s: %v", name, err))
	}
}

// runResult lists what one pipeline run produced.
type runResult struct {
	Summary  ingest.Summary
	Snapshot string
	Page     string
	Exports  []string
	View     types.View
}

// runPipeline executes one load, fetch, merge, persist, and render cycle.
// Nothing is written unless every source was fetched and parsed.
func runPipeline(ctx context.Context, cfg types.FeedConfig, logger *zap.Logger) (runResult, error) {
	var res runResult
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	client, err := httputil.NewClient(cfg.HTTP)
	if err != nil {
		return res, err
	}

	// Template errors surface before any fetch.
	renderer, err := render.NewRenderer(cfg.TemplatesDir, logger)
	if err != nil {
		return res, err
	}

	c := snapshot.Load(ctx, client, cfg.CacheURL, logger)

	engine := ingest.New(
		feed.NewClient(client, cfg.APIBase, cfg.HTTP, logger),
		ingest.WithLogger(logger),
		ingest.WithBucket(cfg.Bucket),
		ingest.WithConcurrency(cfg.Concurrency),
	)
	window := cfg.Window()
	if res.Summary, err = engine.Run(ctx, c, cfg.Sources, window); err != nil {
		return res, err
	}
	engine.Finalize(c, window)

	if res.Snapshot, err = snapshot.Persist(c, cfg.TargetDir); err != nil {
		return res, err
	}
	logger.Info("cache written", zap.String("path", res.Snapshot), zap.Int("buckets", c.Len()))

	res.View = render.BuildView(render.Meta{
		SiteTitle:       cfg.SiteTitle,
		ProjectName:     projectName,
		ProjectVersion:  version,
		ProjectHomepage: projectHomepage,
	}, c)

	if res.Page, err = renderer.WriteSite(cfg, res.View); err != nil {
		return res, err
	}

	yamlPath, err := render.ExportYAML(res.View, cfg.TargetDir)
	if err != nil {
		return res, err
	}
	jsonPath, err := render.ExportJSON(res.View, cfg.TargetDir)
	if err != nil {
		return res, err
	}
	res.Exports = []string{yamlPath, jsonPath}

	logger.Info("run complete",
		zap.Int("sources", res.Summary.Sources),
		zap.Int("inserted", res.Summary.Inserted),
		zap.Int("papers", res.View.PaperCount()),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}
