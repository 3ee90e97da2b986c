// Command minimod is the demo harness binary for the minimod library.
package main

import "minimod/cmd"

func main() {
	cmd.Execute()
}
