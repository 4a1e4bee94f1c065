package main

import (
	"fmt"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/ingest"
	gemdocsslog "github.com/fwojciec/gemdocs/slog"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	ingester, release, err := deps.Pipeline(c.PipelineFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gemdocs.ErrorMessage(err))
		return err
	}
	defer release()

	ingester.Progress = func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Ingesting %d pages from %s\n", event.Total, c.ManifestURL)
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] failed %s: %s\n", event.Completed, event.Total, event.URL, event.Error)
		}
	}

	summary, err := gemdocsslog.NewLoggingRunner(ingester, deps.Logger).Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gemdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Done: %s\n", ingest.FormatSummary(summary))
	return nil
}
