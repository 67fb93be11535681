package main

import "github.com/jsphweid/ustxroll/cmd"

func main() {
	cmd.Execute()
}
