package requirements

import (
	"fmt"
	"io"
	"os"
)

// OutputWriter reports a key/value result to the surrounding orchestrator.
type OutputWriter interface {
	Write(key, value string) error
}

// GitHubOutput appends `key=value` lines to the file named by the
// GITHUB_OUTPUT environment variable, the channel GitHub Actions composite
// steps use. Outside of Actions the pair is echoed to Fallback instead.
type GitHubOutput struct {
	// Fallback receives output lines when GITHUB_OUTPUT is unset.
	// Defaults to os.Stdout.
	Fallback io.Writer
}

// Write implements OutputWriter.
func (o GitHubOutput) Write(key, value string) error {
	line := fmt.Sprintf("%s=%s\n", key, value)

	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		w := o.Fallback
		if w == nil {
			w = os.Stdout
		}
		_, err := io.WriteString(w, line)
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening GITHUB_OUTPUT: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, line); err != nil {
		return fmt.Errorf("writing GITHUB_OUTPUT: %w", err)
	}
	return nil
}
