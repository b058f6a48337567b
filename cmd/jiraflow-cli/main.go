package main

import "jiraflow/cmd/jiraflow-cli/cmd"

func main() {
	cmd.Execute()
}
