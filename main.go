package main

import "github.com/henryantwi/activity-tracker/cmd"

func main() {
	cmd.Execute()
}
