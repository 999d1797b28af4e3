// main.go - Application entry point
package main

import "github.com/valpere/mvtdecode/cmd"

func main() {
	cmd.Execute()
}
