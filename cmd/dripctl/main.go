package main

import (
	"github.com/NVIDIA/drip-optimizer/pkg/cli"
)

func main() {
	cli.Execute()
}
