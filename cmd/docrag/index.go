package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/crawl"
	"github.com/schollz/progressbar/v3"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	if deps.Crawler != nil {
		deps.Crawler.Progress = newProgress(deps.Stdout, deps.Stderr, !c.NoProgress).report
	}

	summary, err := deps.Service.Index(deps.Ctx, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d pages as %d chunks (%s) in %s\n",
		summary.Documents, summary.Chunks, crawl.FormatBytes(summary.Bytes), summary.Duration.Round(time.Millisecond))
	if deps.Config != nil {
		fmt.Fprintf(deps.Stdout, "Index written to %s\n", deps.Config.VectorStore.IndexPath)
	}
	return nil
}

// progress renders crawl events as a progress bar, or as plain lines when
// the bar is disabled.
type progress struct {
	out io.Writer
	err io.Writer
	bar *progressbar.ProgressBar
}

func newProgress(stdout, stderr io.Writer, bar bool) *progress {
	p := &progress{out: stdout, err: stderr}
	if bar {
		p.bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("Crawling"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

func (p *progress) report(event crawl.ProgressEvent) {
	switch event.Type {
	case crawl.ProgressStarted:
		if p.bar == nil {
			return
		}
		p.bar.ChangeMax(event.Total)
		p.bar.Describe(crawl.TruncateURL(event.URL, 50))
	case crawl.ProgressCompleted:
		if p.bar == nil {
			fmt.Fprintf(p.out, "  [%d/%d] %s\n", event.Completed, event.Total, event.URL)
			return
		}
		_ = p.bar.Set(event.Completed)
	case crawl.ProgressFailed:
		if p.bar != nil {
			_ = p.bar.Clear()
		}
		fmt.Fprintf(p.err, "  skip %s: %v\n", event.URL, event.Error)
	case crawl.ProgressFinished:
		if p.bar != nil {
			_ = p.bar.Finish()
		}
		fmt.Fprintf(p.out, "  Crawled %d pages\n", event.Completed)
	}
}
