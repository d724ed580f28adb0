// Command gentemplate writes the blank Word template the word exporter fills in,
// for inspecting or restyling it in a word processor.
package main

import (
	"flag"
	"fmt"
	"os"

	"rest-recon/internal/exporter/word"
)

func main() {
	out := flag.String("o", "template.docx", "Output file")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	if err := word.WriteTemplate(f); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "failed to write template: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *out)
}
