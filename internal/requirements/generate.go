package requirements

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Generator derives plain-text requirement files from the YAML
// specifications of the named package groups.
type Generator interface {
	Generate(ctx context.Context, dir string, groups []string) error
}

// TextGenerator writes one `<group>-requirements.txt` per package group.
type TextGenerator struct {
	Logger *zap.Logger
}

const generatedHeader = "# Generated from %s by reqsync. Do not edit directly.\n"

// Generate implements Generator. Every named group must have a matching
// `<group>.yaml` specification in dir.
func (g *TextGenerator) Generate(ctx context.Context, dir string, groups []string) error {
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}

		specFile := group + ".yaml"
		spec, err := LoadSpec(filepath.Join(dir, specFile))
		if err != nil {
			return fmt.Errorf("group %s: %w", group, err)
		}

		var b strings.Builder
		fmt.Fprintf(&b, generatedHeader, specFile)
		for _, pkg := range spec.Packages {
			if pkg.DevOnly {
				continue
			}
			b.WriteString(pkg.ConstraintLine())
			b.WriteString("\n")
		}

		outPath := filepath.Join(dir, group+"-requirements.txt")
		if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		if g.Logger != nil {
			g.Logger.Info("generated requirement file",
				zap.String("group", group),
				zap.Int("packages", len(spec.Packages)),
			)
		}
	}

	return nil
}
