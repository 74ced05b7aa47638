package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-feed/internal/collection"
	"github.com/pdiddy/paper-feed/internal/httputil"
	"github.com/pdiddy/paper-feed/internal/pdf"
	"github.com/pdiddy/paper-feed/internal/snapshot"
	"github.com/pdiddy/paper-feed/pkg/types"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Download the PDF of a cached paper",
	Long: `Pdf looks the paper up in the snapshot (cache_url, or cache.json in
target_dir when cache_url is empty) and downloads its PDF. The id may be the
full entry id, the bare arXiv id, or the bare id without its version suffix;
when several cached entries match, the most recently updated one wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func init() {
	pdfCmd.Flags().StringP("out", "o", "", "output file (default: <id>.pdf in the current directory)")

	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")

	client, err := httputil.NewClient(cfg.HTTP)
	if err != nil {
		return err
	}

	c := snapshot.Load(cmd.Context(), client, snapshotLocation(cfg), logger)
	paper, ok := c.Lookup(args[0])
	if !ok {
		return fmt.Errorf("paper %q not found in cache (%d papers cached)", args[0], c.PaperCount())
	}

	path, err := pdf.Download(cmd.Context(), client, paper, out, cfg.HTTP)
	if err != nil {
		return err
	}
	logger.Info("pdf downloaded", zap.String("id", paper.ID), zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// snapshotLocation is where read-only commands find the cache.
func snapshotLocation(cfg types.FeedConfig) string {
	if cfg.CacheURL != "" {
		return cfg.CacheURL
	}
	return filepath.Join(cfg.TargetDir, snapshot.FileName)
}

// loadSnapshot reads the cache for read-only commands.
func loadSnapshot(cmd *cobra.Command, cfg types.FeedConfig) (*collection.Collection, error) {
	client, err := httputil.NewClient(cfg.HTTP)
	if err != nil {
		return nil, err
	}
	return snapshot.Load(cmd.Context(), client, snapshotLocation(cfg), logger), nil
}
