package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docrag"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	question := strings.Join(c.Question, " ")

	if err := deps.Service.LoadIndex(deps.Ctx); err != nil {
		if docrag.ErrorCode(err) == docrag.ENOINDEX {
			fmt.Fprintln(deps.Stderr, "error: no index found. Run 'docrag index' first to create it.")
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docrag.ErrorMessage(err))
		}
		return err
	}

	answer, err := deps.Service.Ask(deps.Ctx, question, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nQ: %s\n", question)
	fmt.Fprintf(deps.Stdout, "\nA: %s\n", answer.Text)
	fmt.Fprintln(deps.Stdout, "\nSources:")
	for _, u := range answer.Sources {
		fmt.Fprintf(deps.Stdout, "- %s\n", u)
	}
	return nil
}
