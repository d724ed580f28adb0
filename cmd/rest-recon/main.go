package main

import (
	"fmt"
	"os"
)

const (
	appName    = "REST Recon"
	appVersion = "1.0.0"
	appDesc    = "Generates Go API test suites from WordPress REST controller sources"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n❌ PANIC: %v\n", r)
			os.Exit(2)
		}
	}()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      REST RECON v1.0.0                    ║
║     Test suites from WordPress REST controller sources    ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
