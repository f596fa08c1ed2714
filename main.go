package main

import "os"

func main() {
	os.Exit(HandleExitError(os.Stderr, NewRootCommand(os.Stdout, os.Stderr).Execute()))
}
