// Package render draws the observed topology next to its spanning forest.
package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/encodeous/topomon/state"
)

// Filename returns network_plot_YYYYMMDD_HHMMSS.<ext> for t.
func Filename(t time.Time, ext string) string {
	return state.PlotPrefix + t.Format(state.PlotTimeFormat) + "." + ext
}

// createUnique creates <dir>/Filename(t, ext), or the same name with a _N suffix
// before the extension for the smallest free N. It never opens an existing file.
// The returned name has no extension.
func createUnique(dir string, t time.Time, ext string) (*os.File, string, error) {
	base := strings.TrimSuffix(Filename(t, ext), "."+ext)
	for i := 0; ; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		f, err := os.OpenFile(filepath.Join(dir, name+"."+ext), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return f, name, nil
	}
}
