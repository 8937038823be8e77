package main

import "github.com/fleximart/etl-pipeline/cmd"

func main() {
	cmd.Execute()
}
