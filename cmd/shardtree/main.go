package main

import "github.com/aretw0/shardtree/cmd/shardtree/cmd"

func main() {
	cmd.Execute()
}
