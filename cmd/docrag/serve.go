package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/docrag"
	dochttp "github.com/fwojciec/docrag/http"
	docprom "github.com/fwojciec/docrag/prometheus"
)

const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	// A missing index is not fatal: /ask retries the load on each request.
	if err := deps.Service.LoadIndex(deps.Ctx); err != nil {
		if docrag.ErrorCode(err) != docrag.ENOINDEX {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docrag.ErrorMessage(err))
			return err
		}
		deps.Logger.Warn("no index found, run 'docrag index' to create it", "err", err)
	}

	srv := dochttp.NewServer(docprom.NewAsker(deps.Service, deps.Metrics), deps.Service)
	srv.Metrics = deps.Metrics
	srv.Logger = deps.Logger
	if len(c.Origins) > 0 {
		srv.Origins = c.Origins
	}

	if err := srv.Open(c.Addr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: listening on %s: %v\n", c.Addr, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.Addr())

	<-deps.Ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Close(ctx)
}
