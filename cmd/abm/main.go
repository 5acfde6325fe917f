package main

import (
	"os"

	"github.com/nikbrunner/abm/internal/host"
)

func main() {
	c := &cli{host: host.NewDesktop()}
	if err := newRootCmd(c).Execute(); err != nil {
		os.Exit(1)
	}
}
