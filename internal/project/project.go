// Package project handles the map-authoring side channel: copying the
// template project next to the output and launching the desktop
// application on it. Neither step is fatal to the pipeline.
package project

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// CopyTemplate copies the template project file to dst, replacing any
// existing file there.
func CopyTemplate(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("template project: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copy template project: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy template project: %w", err)
	}
	return out.Close()
}

// Launch starts the application detached, pointed at the given package.
// Output is discarded; the process is not waited on.
func Launch(bin string, args ...string) error {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", bin, err)
	}
	// Release so the child outlives us.
	return cmd.Process.Release()
}
