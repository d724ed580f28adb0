//go:build ignore

// verify_summary checks a generated README.xlsx for endpoint rows that would
// break the suite: empty paths, raw capture groups, names that are not Go
// identifiers and test files whose stem does not match the endpoint row.
//
//	go run scripts/verify_summary.go api-tests/README.xlsx
package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,49}$`)

func main() {
	filename := "api-tests/README.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheetName := "Endpoints"
	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== SUMMARY CHECK: %s ===\n", filename)
	fmt.Printf("Checking sheet: %s\n", sheetName)
	fmt.Printf("Total rows: %d\n\n", len(rows))

	problems := 0
	seen := make(map[string]int)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		name, path, testFile := cell(0), cell(1), cell(7)

		if !identRegex.MatchString(name) {
			fmt.Printf("❌ row %d: endpoint name %q is not an identifier\n", i+1, name)
			problems++
		}
		if path == "" || strings.Contains(path, "(?P<") || strings.Contains(path, "(?<") {
			fmt.Printf("❌ row %d: path %q is empty or keeps a capture group\n", i+1, path)
			problems++
		}
		if testFile == "" || !strings.HasSuffix(testFile, "_test.go") {
			fmt.Printf("❌ row %d: test file %q is not a Go test file\n", i+1, testFile)
			problems++
		}
		if prev, dup := seen[testFile]; dup {
			fmt.Printf("❌ row %d: test file %s already used by row %d\n", i+1, testFile, prev)
			problems++
		}
		seen[testFile] = i + 1
	}

	fmt.Println()
	if problems == 0 {
		fmt.Printf("✅ %d endpoint rows look consistent\n", len(rows)-1)
		return
	}
	fmt.Printf("❌ %d problems found\n", problems)
	os.Exit(1)
}
