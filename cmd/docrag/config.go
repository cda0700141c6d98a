package main

import (
	dockoanf "github.com/fwojciec/docrag/koanf"
)

// Run executes the config command.
func (c *ConfigCmd) Run(deps *Dependencies) error {
	out, err := dockoanf.Marshal(deps.Config)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(out)
	return err
}
