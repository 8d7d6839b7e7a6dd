package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/todo/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	apiURL := flag.String("api", "", "backend base URL (overrides TODO_API_URL)")
	theme := flag.String("theme", "", "output theme: classic, neon or mono (overrides TODO_THEME)")
	debug := flag.Bool("debug", false, "write debug logs (to TODO_LOG_FILE or ./todo-debug.log)")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"ls"}
	}

	code := cli.Run(args, cli.Options{
		APIURL: *apiURL,
		Theme:  *theme,
		Debug:  *debug,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
