package requirements

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Refresher runs the two-step requirements refresh pipeline:
//
//  1. normalize the YAML specifications under Dir;
//  2. if the working tree is still clean, report updated=false and stop;
//     otherwise regenerate the requirement text files for Groups exactly
//     once, show the diff, and report updated=true.
//
// Any step failure aborts the pipeline before the output is written.
type Refresher struct {
	Dir    string
	Groups []string

	Normalizer Normalizer
	Generator  Generator
	Git        GitClient
	Output     OutputWriter

	// DiffOut receives the post-generation diff for display.
	// Defaults to os.Stdout.
	DiffOut io.Writer
	Logger  *zap.Logger
}

// NewRefresher builds a Refresher with the production collaborators.
func NewRefresher(dir string, groups []string, logger *zap.Logger) *Refresher {
	if len(groups) == 0 {
		groups = PackageGroups
	}
	return &Refresher{
		Dir:        dir,
		Groups:     groups,
		Normalizer: &YAMLNormalizer{Logger: logger},
		Generator:  &TextGenerator{Logger: logger},
		Git:        CLIGit{},
		Output:     GitHubOutput{},
		Logger:     logger,
	}
}

// Run executes the pipeline and reports whether an update occurred.
func (r *Refresher) Run(ctx context.Context) (bool, error) {
	if err := r.Normalizer.Normalize(ctx, r.Dir); err != nil {
		return false, fmt.Errorf("normalizing requirement specs: %w", err)
	}

	clean, err := r.Git.Clean(ctx, r.Dir)
	if err != nil {
		return false, fmt.Errorf("checking working tree: %w", err)
	}

	if clean {
		if r.Logger != nil {
			r.Logger.Info("requirement specs already normalized", zap.String("dir", r.Dir))
		}
		if err := r.Output.Write("updated", "false"); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := r.Generator.Generate(ctx, r.Dir, r.Groups); err != nil {
		return false, fmt.Errorf("generating requirement files: %w", err)
	}

	diff, err := r.Git.Diff(ctx, r.Dir)
	if err != nil {
		return false, fmt.Errorf("diffing requirements location: %w", err)
	}
	out := r.DiffOut
	if out == nil {
		out = os.Stdout
	}
	if _, err := io.WriteString(out, diff); err != nil {
		return false, err
	}

	if r.Logger != nil {
		r.Logger.Info("requirement files regenerated",
			zap.String("dir", r.Dir),
			zap.Strings("groups", r.Groups),
		)
	}

	if err := r.Output.Write("updated", "true"); err != nil {
		return false, err
	}
	return true, nil
}
