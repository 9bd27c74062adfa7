package main

import "github.com/sportify-app/apiserver/cmd"

func main() {
	cmd.Execute()
}
