// Command ipx runs the image transformation HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/r9s-ai/ipx/internal/ipxserver"
)

var version = "dev"

func main() {
	var cfgPath string
	var showVersion bool

	flag.StringVar(&cfgPath, "config", "", "path to config.yaml")
	flag.StringVar(&cfgPath, "c", "", "path to config.yaml (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("ipx " + version)
		return
	}

	if cfgPath == "" {
		cfgPath = os.Getenv("IPX_CONFIG")
	}

	if err := ipxserver.Run(cfgPath); err != nil {
		log.Fatalf("ipx: %v", err)
	}
}
