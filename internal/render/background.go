package render

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// PlaceholderBackground is used when a manifest or directory yields nothing.
const PlaceholderBackground = "https://placehold.co/1920x1080/E0D7EB/333333?text=Background+Not+Found"

var imageExts = []string{".jpg", ".png", ".gif", ".bmp"}

// Background is one configured background source: URLSource,
// ManifestSource or DirectorySource.
type Background interface {
	background()
}

// URLSource is used as-is.
type URLSource struct {
	URL string
}

// ManifestSource is a text file listing one background reference per line.
type ManifestSource struct {
	Path string
}

// DirectorySource is a directory of image files.
type DirectorySource struct {
	Path string
}

func (URLSource) background()       {}
func (ManifestSource) background()  {}
func (DirectorySource) background() {}

// ParseBackground classifies a configured reference: http(s) URLs, then
// .txt manifests, then directories.
func ParseBackground(ref string) Background {
	switch {
	case isURL(ref):
		return URLSource{URL: ref}
	case strings.HasSuffix(strings.ToLower(ref), ".txt"):
		return ManifestSource{Path: ref}
	default:
		return DirectorySource{Path: ref}
	}
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// resolveBackground turns a source into a concrete reference. pick returns a
// uniform index in [0, n).
func resolveBackground(src Background, pick func(n int) int) string {
	switch s := src.(type) {
	case URLSource:
		return s.URL
	case ManifestSource:
		lines, err := readManifest(s.Path)
		if err != nil || len(lines) == 0 {
			return PlaceholderBackground
		}
		return strings.ReplaceAll(lines[pick(len(lines))], `\`, "/")
	case DirectorySource:
		files := imageFiles(s.Path)
		if len(files) == 0 {
			return PlaceholderBackground
		}
		return filepath.ToSlash(filepath.Join(s.Path, files[pick(len(files))]))
	default:
		return PlaceholderBackground
	}
}

func readManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func imageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range imageExts {
			if ext == want {
				files = append(files, e.Name())
				break
			}
		}
	}
	return files
}
