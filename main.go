package main

import (
	"log"

	"github.com/akira-dev/gif-bed/cmd"
	"github.com/akira-dev/gif-bed/config"
)

func main() {
	log.Printf("gif bed %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
