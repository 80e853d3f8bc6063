package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Dir serves recorded responses from <root>/<ORIGIN>-<DEST>-<YYYY-MM-DD>.json.
// A missing file means no flights are offered and is reported as KindBadRequest.
type Dir struct {
	root string
}

// NewDir creates a fixture fetcher rooted at dir.
func NewDir(dir string) (*Dir, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture path %s is not a directory", dir)
	}
	return &Dir{root: dir}, nil
}

// FileName returns the fixture file name of a hop query.
func FileName(origin, destination string, date time.Time) string {
	return fmt.Sprintf("%s-%s-%s.json", origin, destination, model.FormatDate(date))
}

// Fetch reads the fixture of one hop.
func (d *Dir) Fetch(ctx context.Context, origin, destination string, date time.Time) ([]model.RawLeg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(d.root, FileName(origin, destination, date))
	data, err := os.ReadFile(path) //nolint:gosec // fixture directory is provided by the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, BadRequest(fmt.Errorf("no fixture %s", filepath.Base(path)))
		}
		return nil, Transport(err)
	}
	return decodeFlights(data)
}
