// Command presquile writes chapter markers from an Adobe Audition marker
// export into an enriched copy of an MP3 file.
//
// Usage:
//
//	presquile apply <markers.csv> <audio.mp3>
//	presquile inspect <audio.mp3>
//	presquile version
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error \"%s\" occurred\n", err)
		return 1
	}
	return 0
}
