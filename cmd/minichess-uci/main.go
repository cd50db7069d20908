package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/uci"
)

var (
	depth     = flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	noPruning = flag.Bool("nopruning", false, "search the full minimax tree")
)

func main() {
	flag.Parse()

	eng := engine.NewEngine()
	eng.SetDepth(*depth)
	eng.SetPruning(!*noPruning)

	// Create and run UCI protocol handler
	protocol := uci.New(eng, os.Stdout, os.Stderr)
	if err := protocol.Run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}
