package main

import "github.com/inovacc/worklog/cmd"

func main() {
	cmd.Execute()
}
