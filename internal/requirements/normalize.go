package requirements

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Normalizer canonicalizes every requirement specification in a directory.
type Normalizer interface {
	Normalize(ctx context.Context, dir string) error
}

// YAMLNormalizer rewrites YAML requirement specifications into their
// canonical form. Files are only touched when the canonical form differs,
// so a normalized directory stays byte-identical across runs.
type YAMLNormalizer struct {
	Logger *zap.Logger
}

// Normalize implements Normalizer.
func (n *YAMLNormalizer) Normalize(ctx context.Context, dir string) error {
	paths, err := specPaths(dir)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		spec, err := LoadSpec(path)
		if err != nil {
			return err
		}
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		if !spec.Canonicalize() {
			continue
		}

		if err := spec.Write(path); err != nil {
			return err
		}
		if n.Logger != nil {
			n.Logger.Info("normalized requirement spec",
				zap.String("file", filepath.Base(path)),
				zap.Int("packages", len(spec.Packages)),
			)
		}
	}

	return nil
}

// specPaths lists the YAML specification files in dir, sorted for
// deterministic processing order.
func specPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading requirements location: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
