package main

import "github.com/louisunlimited/sourcekit-lsp/cmd"

func main() {
	cmd.Execute()
}
