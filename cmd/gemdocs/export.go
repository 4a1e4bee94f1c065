package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	store := fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir))
	n, err := fs.Export(deps.Ctx, deps.Pages, store)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gemdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", n, dir)
	return nil
}
