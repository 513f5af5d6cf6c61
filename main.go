package main

import (
	"github.com/scanmart/scanmart/cmd"
)

func main() {
	cmd.Start()
}
