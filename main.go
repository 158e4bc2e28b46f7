package main

import "github.com/openpitwall/telemetry-compare-go/cmd"

func main() {
	cmd.Execute()
}
