// Command britney runs the Debian archive migration engine.
package main

import "github.com/debarchive/britney/internal/cli"

func main() {
	cli.Execute()
}
