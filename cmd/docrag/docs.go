package main

import (
	"fmt"

	"github.com/fwojciec/docrag"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	docs, err := deps.Service.Documents(deps.Ctx)
	if err != nil {
		if docrag.ErrorCode(err) == docrag.ENOINDEX {
			fmt.Fprintln(deps.Stderr, "error: no index found. Run 'docrag index' first to create it.")
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docrag.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed documents (%d total):\n\n", len(docs))
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", i+1, title, doc.SourceURL)
	}
	return nil
}
