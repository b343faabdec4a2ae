package main

import (
	"github.com/turtacn/credscore/cmd/cli"
)

// main is the entry point for the credscore-admin command-line tool.
// main 是 credscore-admin 命令行工具的入口点。
func main() {
	cli.Execute()
}
