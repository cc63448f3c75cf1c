package main

import "github.com/racelap/racelap-ingest-go/cmd"

func main() {
	cmd.Execute()
}
