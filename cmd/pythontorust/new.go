package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Pverheijen/pythontorust"
)

var (
	newSection string
	newDraft   bool
)

// articleFrontMatter is what `new` writes at the top of a scaffolded
// article. It mirrors the loader's front-matter schema.
type articleFrontMatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Tags  []string `yaml:"tags,omitempty"`
	Draft bool     `yaml:"draft,omitempty"`
}

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a new article with front matter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}

		title := args[0]
		slug := pythontorust.Slugify(title)
		if slug == "" {
			return fmt.Errorf("title %q produces an empty slug", title)
		}

		dir := filepath.Join(app.Config.ContentDir, filepath.FromSlash(newSection))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		dest := filepath.Join(dir, slug+".md")
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("%s already exists", dest)
		}

		fm, err := yaml.Marshal(articleFrontMatter{
			Title: title,
			Date:  time.Now().Format("2006-01-02"),
			Draft: newDraft,
		})
		if err != nil {
			return err
		}
		content := fmt.Sprintf("---\n%s---\n\nWrite here.\n", fm)
		if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
			return err
		}
		fmt.Println(dest)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newSection, "section", "learning-path", "section the article belongs to")
	newCmd.Flags().BoolVar(&newDraft, "draft", true, "mark the article as a draft")
	rootCmd.AddCommand(newCmd)
}
