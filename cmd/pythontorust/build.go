package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pverheijen/pythontorust"
)

var (
	buildDrafts bool
	buildCache  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site into the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if buildDrafts {
			pythontorust.WithDrafts()(app)
		}
		if buildCache != "" {
			pythontorust.WithRenderCache(buildCache)(app)
		}

		res, err := app.Build(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("built %d pages into %s\n", res.Pages, app.Config.OutputDir)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "include draft articles")
	buildCmd.Flags().StringVar(&buildCache, "cache", "", "SQLite render cache path")
	rootCmd.AddCommand(buildCmd)
}
