// Command rodlayout draws and aligns shapes in a layout database.
package main

import "github.com/mesh-intelligence/rodlayout/internal/cli"

func main() {
	cli.Execute()
}
