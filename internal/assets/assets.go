// Package assets locates candidate footage on disk and owns the explicit,
// seedable ordering of the clip pool.
package assets

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrNoVideos = errors.New("no video files found")

var videoExts = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".avi": {},
	".mkv": {},
}

// ScanVideos lists video files directly under dir, sorted by name so the base
// order is stable across runs and platforms.
func ScanVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read assets dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := videoExts[ext]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoVideos, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Shuffle returns a copy of paths in pseudo-random order. The seed makes pool
// ordering an explicit, reproducible input rather than hidden global state.
func Shuffle(paths []string, seed int64) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
