package main

import "github.com/skaut/skautis-gate/cmd"

func main() {
	cmd.Execute()
}
