package main

import (
	"fmt"

	"github.com/fwojciec/gemdocs"
	gemdocshttp "github.com/fwojciec/gemdocs/http"
	"github.com/fwojciec/gemdocs/mcp"
	"github.com/fwojciec/gemdocs/query"
	"github.com/fwojciec/gemdocs/refresh"
	gemdocsslog "github.com/fwojciec/gemdocs/slog"
)

// Run executes the serve command. A refresh starts in the background unless
// --no-refresh is set; queries are answered from the current index meanwhile.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ingester, release, err := deps.Pipeline(c.PipelineFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gemdocs.ErrorMessage(err))
		return err
	}
	defer release()

	coord := refresh.NewCoordinator(
		gemdocsslog.NewLoggingRunner(ingester, deps.Logger),
		refresh.WithLogger(deps.Logger),
	)
	defer coord.Wait()

	server, err := mcp.NewServer(&mcp.Ports{
		Query:   query.NewService(deps.Pages),
		Refresh: coord,
		Pages:   deps.Pages,
	})
	if err != nil {
		return err
	}

	if !c.NoRefresh {
		coord.Trigger()
	}

	if c.HTTP != "" {
		srv := gemdocshttp.NewServer(coord,
			gemdocshttp.WithMCPHandler(server.Handler()),
			gemdocshttp.WithServerLogger(deps.Logger),
		)
		return srv.ListenAndServe(deps.Ctx, c.HTTP)
	}

	deps.Logger.Info("serving MCP over stdio")
	return server.Run(deps.Ctx)
}
