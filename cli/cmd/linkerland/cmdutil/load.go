package cmdutil

import (
	"os"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"linkerland.dev/pkg/mapfile"
	"linkerland.dev/pkg/sizes"
)

// ParseMap reads and parses the map file at path.
func ParseMap(path string) (*mapfile.MapFile, error) {
	if fi, err := os.Stat(path); err == nil {
		log.Debug().Str("path", path).Int64("bytes", fi.Size()).Msg("reading map file")
	}

	start := time.Now()
	m, err := mapfile.ParseFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "parse error")
	}
	log.Debug().
		Dur("took", time.Since(start)).
		Int("objects", len(m.ObjectFiles)).
		Int("sections", len(m.Sections)).
		Int("symbols", len(m.Symbols)).
		Str("format", m.Format.String()).
		Msg("parsed map file")
	return m, nil
}

// LoadMap parses the map file at path and computes its size metrics.
func LoadMap(path string) (*mapfile.MapFile, *sizes.Metrics, error) {
	m, err := ParseMap(path)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	metrics := sizes.BuildParallel(m, runtime.GOMAXPROCS(0))
	log.Debug().
		Dur("took", time.Since(start)).
		Uint64("total", metrics.Totals.Total).
		Msg("computed size metrics")
	if metrics.Dropped > 0 {
		log.Debug().Int("dropped", metrics.Dropped).Msg("skipped symbols with unreadable addresses")
	}
	return m, metrics, nil
}
