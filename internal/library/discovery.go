package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/juho05/log"

	"github.com/llehouerou/metaread/internal/errmsg"
	"github.com/llehouerou/metaread/internal/tags"
)

// discoverFiles expands directories into the music files they contain.
// Plain file arguments are kept as given. Order follows the arguments,
// then the lexical walk order.
func discoverFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			log.Warnf("%s", errmsg.FormatWith(errmsg.OpFilesScan, p, err))
			continue
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Skip unreadable entries and keep scanning.
			if walkErr != nil {
				log.Tracef("walk %s: %s", path, walkErr)
				return nil //nolint:nilerr // intentionally skipping errors
			}
			if d.IsDir() || !tags.IsMusicFile(path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return files, err
		}
	}
	return files, nil
}
