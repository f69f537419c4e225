package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/corvidchess/corvid/engine"
)

var (
	buildVersion = "(devel)"
	buildTime    = "(just now)"

	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	version    = flag.Bool("version", false, "only print version and exit")
)

// main wires stdin/stdout to a UCI session. Diagnostics that aren't part
// of the UCI wire format itself (a bad cpuprofile path, a broken stdin
// pipe, a command that failed to execute) go through engine.Log() rather
// than onto stdout, so they can never be mistaken for protocol output by
// a GUI reading the engine's replies.
func main() {
	fmt.Printf("corvid %v, built with %v at %v, running on %v\n",
		buildVersion, runtime.Version(), buildTime, runtime.GOARCH)

	flag.Parse()
	if *version {
		return
	}
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			engine.Log().Error(err, "failed to create cpuprofile file", "path", *cpuprofile)
			os.Exit(1)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	bio := bufio.NewReader(os.Stdin)
	u := NewUCI()
	for {
		line, _, err := bio.ReadLine()
		if err != nil {
			engine.Log().Error(err, "stdin read failed")
			break
		}
		if err := u.Execute(string(line)); err != nil {
			if err != errQuit {
				engine.Log().Error(err, "command execution failed", "line", string(line))
			} else {
				break
			}
		}
	}
}
