package main

import (
	"github.com/spf13/cobra"

	"github.com/Pverheijen/pythontorust"
	"github.com/Pverheijen/pythontorust/views"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pythontorust",
	Short: "Static site generator for the Python to Rust blog",
	Long: `pythontorust renders the Markdown articles under content/ into a
static site: article pages with a listing of the other articles in the
same series, section listings, an RSS feed and a sitemap.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
}

// loadApp builds the engine from config.yaml and the embedded views.
func loadApp() (*pythontorust.App, error) {
	cfg, err := pythontorust.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	return pythontorust.New(cfg, views.Funcs()), nil
}
