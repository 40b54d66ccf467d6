package main

import (
	"log"

	"github.com/NVIDIA/drip-optimizer/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
