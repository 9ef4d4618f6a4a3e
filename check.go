package pythontorust

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Problem is a broken internal reference found in built HTML.
type Problem struct {
	File string // HTML file containing the reference, relative to the output dir
	Ref  string // the href/src value that resolved to nothing
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: broken reference %q", p.File, p.Ref)
}

// CheckLinks walks the built site and reports every internal link and
// image source that does not resolve to a file in the output tree.
// External URLs, mail links and pure fragments are left alone.
func CheckLinks(outDir string) ([]Problem, error) {
	var problems []Problem

	err := filepath.WalkDir(outDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, err := filepath.Rel(outDir, p)
		if err != nil {
			return err
		}
		found, err := checkFile(outDir, p, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		problems = append(problems, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("check links: %w", err)
	}
	return problems, nil
}

func checkFile(outDir, fsPath, rel string) ([]Problem, error) {
	f, err := os.Open(fsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}

	var problems []Problem
	doc.Find("a[href], img[src], link[href], script[src]").Each(func(_ int, sel *goquery.Selection) {
		ref, ok := sel.Attr("href")
		if !ok {
			ref, _ = sel.Attr("src")
		}
		if !isInternal(ref) {
			return
		}
		if !resolves(outDir, rel, ref) {
			problems = append(problems, Problem{File: rel, Ref: ref})
		}
	})
	return problems, nil
}

// isInternal reports whether ref points into this site.
func isInternal(ref string) bool {
	switch {
	case ref == "", strings.HasPrefix(ref, "#"):
		return false
	case strings.Contains(ref, "://"), strings.HasPrefix(ref, "//"),
		strings.HasPrefix(ref, "mailto:"), strings.HasPrefix(ref, "tel:"):
		return false
	}
	return true
}

// resolves checks that ref maps to a real file under outDir. A
// directory reference resolves through its index.html.
func resolves(outDir, fromRel, ref string) bool {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if ref == "" {
		return true
	}

	var target string
	if strings.HasPrefix(ref, "/") {
		target = path.Clean(ref)
	} else {
		target = path.Join("/", path.Dir(fromRel), ref)
	}
	target = strings.TrimPrefix(target, "/")

	candidates := []string{
		filepath.Join(outDir, filepath.FromSlash(target)),
		filepath.Join(outDir, filepath.FromSlash(target), "index.html"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
