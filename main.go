package main

import (
	"os"

	"timeline-media/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}
