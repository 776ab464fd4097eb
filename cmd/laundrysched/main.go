package main

import "github.com/example/laundry-scheduler/cmd"

func main() {
	cmd.Execute()
}
