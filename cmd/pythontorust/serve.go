package main

import (
	"github.com/spf13/cobra"

	"github.com/Pverheijen/pythontorust"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site, serve it locally, and rebuild on changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if serveAddr != "" {
			app.Config.Addr = serveAddr
		}
		// The watcher rebuilds often; the render cache pays off here.
		if app.Config.CachePath == "" {
			pythontorust.WithRenderCache("data/render-cache.db")(app)
		}

		return pythontorust.NewServer(app).Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :1313)")
	rootCmd.AddCommand(serveCmd)
}
