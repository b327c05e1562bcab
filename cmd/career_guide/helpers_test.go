package main

import (
	"bytes"
	"strings"
	"testing"
)

// execute runs the root command in-process with args and returns everything it
// wrote. Flag variables are reset first because cobra keeps them between runs.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	configPath, verbose = "", false
	templatesJSON = false
	searchEndpoint, searchRecords = "", false
	retrieveDocument, collectOutputFile = "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
