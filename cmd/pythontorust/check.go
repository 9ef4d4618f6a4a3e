package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pverheijen/pythontorust"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report broken internal links in the built site",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}

		problems, err := pythontorust.CheckLinks(app.Config.OutputDir)
		if err != nil {
			return err
		}
		for _, p := range problems {
			fmt.Println(p)
		}
		if len(problems) > 0 {
			return fmt.Errorf("%d broken references", len(problems))
		}
		fmt.Println("no broken references")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
