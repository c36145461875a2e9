// The main package for the playmeta executable.
package main

import (
	"github.com/appaudit/playmeta/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
