package convert

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"
)

// pageCount returns the number of pages, or 0 when the file cannot be parsed.
// It is informational only; the model receives the raw bytes either way.
func pageCount(path string) (n int) {
	// rsc.io/pdf panics on some malformed trailers.
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0
	}
	doc, err := rpdf.NewReader(f, info.Size())
	if err != nil {
		return 0
	}
	return doc.NumPage()
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// expandInputs replaces each directory with the PDFs directly inside it,
// sorted by name. Other paths are kept as given.
func expandInputs(inputs []string) ([]string, error) {
	var out []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil || !info.IsDir() {
			out = append(out, in)
			continue
		}
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && isPDF(e.Name()) {
				found = append(found, filepath.Join(in, e.Name()))
			}
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
