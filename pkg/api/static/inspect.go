package static

import (
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Report lists the local assets index.html references and those the bundle
// does not contain.
type Report struct {
	Title   string   `json:"title"`
	Assets  []string `json:"assets"`
	Missing []string `json:"missing"`
}

// Inspect parses the bundle's index.html and checks every local script,
// stylesheet, icon and image it references.
func Inspect(fsys fs.FS) (Report, error) {
	f, err := fsys.Open(indexFile)
	if err != nil {
		return Report{}, fmt.Errorf("open %s: %w", indexFile, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return Report{}, fmt.Errorf("parse %s: %w", indexFile, err)
	}

	report := Report{
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Assets:  []string{},
		Missing: []string{},
	}
	seen := map[string]bool{}
	collect := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, s *goquery.Selection) {
			ref, ok := s.Attr(attr)
			if !ok {
				return
			}
			name, local := localAsset(ref)
			if !local || seen[name] {
				return
			}
			seen[name] = true
			report.Assets = append(report.Assets, name)
		}
	}
	doc.Find("script[src]").Each(collect("src"))
	doc.Find("link[href]").Each(collect("href"))
	doc.Find("img[src]").Each(collect("src"))

	sort.Strings(report.Assets)
	for _, name := range report.Assets {
		if info, err := fs.Stat(fsys, name); err != nil || info.IsDir() {
			report.Missing = append(report.Missing, name)
		}
	}
	return report, nil
}

// localAsset resolves a reference to a bundle path. Absolute URLs, data URIs
// and fragments are not local.
func localAsset(ref string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	name := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}
