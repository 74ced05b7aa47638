package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-feed/internal/render"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the render view of the cached papers",
	Long: `View builds the render view from the snapshot without fetching anything
and prints it as YAML (default) or JSON: days newest first, categories in
the order they were first filled, fresh papers before revised ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		c, err := loadSnapshot(cmd, cfg)
		if err != nil {
			return err
		}
		view := render.BuildView(render.Meta{
			SiteTitle:       cfg.SiteTitle,
			ProjectName:     projectName,
			ProjectVersion:  version,
			ProjectHomepage: projectHomepage,
		}, c)

		w := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encoding view: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	viewCmd.Flags().Bool("json", false, "print JSON instead of YAML")

	rootCmd.AddCommand(viewCmd)
}
