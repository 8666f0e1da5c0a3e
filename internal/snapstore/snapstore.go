// Package snapstore locates and decodes traffic snapshot files on disk.
package snapstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"github.com/trafficlens/trafficlens/internal/contract"
	"github.com/trafficlens/trafficlens/schema"
)

// ErrNoSnapshots reports a metrics directory without any snapshot files.
var ErrNoSnapshots = errors.New("no snapshots found")

// ParseError reports a snapshot file whose content could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse snapshot %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Discover returns the snapshot candidates in dir, sorted by filename. Only
// regular files with a .json extension (case-insensitive) count.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("metrics directory not found: %s", dir)
		}
		return nil, fmt.Errorf("cannot read metrics directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSnapshots, dir)
	}
	sort.Strings(files)
	return files, nil
}

// Order returns the candidates ordered oldest to newest per the strategy.
// The filename strategy trusts the date-named files directly. The collected
// strategy orders by each file's collection timestamp, with unreadable or
// unstamped files keeping their filename position via the stable sort.
func Order(files []string, strategy schema.SelectStrategy) []string {
	ordered := make([]string, len(files))
	copy(ordered, files)
	if strategy != schema.ByCollected {
		return ordered
	}

	keys := make(map[string]string, len(ordered))
	for _, f := range ordered {
		keys[f] = collectedKey(f)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return keys[ordered[i]] < keys[ordered[j]]
	})
	return ordered
}

// SelectLatest picks the newest candidate according to the strategy.
func SelectLatest(files []string, strategy schema.SelectStrategy) string {
	if len(files) == 0 {
		return ""
	}
	ordered := Order(files, strategy)
	return ordered[len(ordered)-1]
}

// collectedKey extracts the collection timestamp for ordering, or an empty
// string when the file cannot be read or carries no timestamp.
func collectedKey(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var probe struct {
		CollectedAt string `json:"collected_at"`
		Timestamp   string `json:"timestamp"`
		Date        string `json:"date"`
	}
	if err := sonic.Unmarshal(data, &probe); err != nil {
		return ""
	}
	if probe.CollectedAt != "" {
		return probe.CollectedAt
	}
	if probe.Timestamp != "" {
		return probe.Timestamp
	}
	return probe.Date
}

// Load reads and decodes a single snapshot file.
func Load(path string) (*schema.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read snapshot %s: %w", path, err)
	}
	var snap schema.Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	snap.SourcePath = path
	return &snap, nil
}

// LoadLatest resolves the snapshot to analyze from the configuration. An
// explicit file override wins; otherwise the newest file in the metrics
// directory is chosen with the configured strategy.
func LoadLatest(cfg *contract.Config) (*schema.Snapshot, error) {
	if cfg.SnapshotFile != "" {
		contract.LogDebug("loading explicit snapshot", logrus.Fields{"file": cfg.SnapshotFile})
		return Load(cfg.SnapshotFile)
	}

	files, err := Discover(cfg.MetricsDir)
	if err != nil {
		return nil, err
	}
	selected := SelectLatest(files, cfg.LatestBy)
	contract.LogDebug("selected snapshot", logrus.Fields{
		"candidates": len(files),
		"selected":   selected,
		"strategy":   cfg.LatestBy,
	})
	return Load(selected)
}

// LoadComparePair resolves the two snapshots for a comparison. Explicit
// base and target files win when both are set; otherwise the two newest
// files in the metrics directory serve as base and target.
func LoadComparePair(cfg *contract.Config) (base, target *schema.Snapshot, err error) {
	basePath, targetPath := cfg.BaseFile, cfg.TargetFile
	if basePath == "" && targetPath == "" {
		files, err := Discover(cfg.MetricsDir)
		if err != nil {
			return nil, nil, err
		}
		if len(files) < 2 {
			return nil, nil, fmt.Errorf("comparison needs at least 2 snapshots in %s (found %d)", cfg.MetricsDir, len(files))
		}
		ordered := Order(files, cfg.LatestBy)
		basePath = ordered[len(ordered)-2]
		targetPath = ordered[len(ordered)-1]
		contract.LogDebug("auto-selected comparison pair", logrus.Fields{
			"base":     basePath,
			"target":   targetPath,
			"strategy": cfg.LatestBy,
		})
	}

	if base, err = Load(basePath); err != nil {
		return nil, nil, err
	}
	if target, err = Load(targetPath); err != nil {
		return nil, nil, err
	}
	return base, target, nil
}

// LoadAll loads every snapshot in the metrics directory, ordered oldest to
// newest with the configured strategy. Any unparseable file fails the load.
func LoadAll(cfg *contract.Config) ([]*schema.Snapshot, error) {
	files, err := Discover(cfg.MetricsDir)
	if err != nil {
		return nil, err
	}
	ordered := Order(files, cfg.LatestBy)
	snaps := make([]*schema.Snapshot, 0, len(ordered))
	for _, f := range ordered {
		snap, err := Load(f)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	contract.LogDebug("loaded all snapshots", logrus.Fields{
		"count":    len(snaps),
		"strategy": cfg.LatestBy,
	})
	return snaps, nil
}
