package main

import "github.com/iliyamo/hotelhub-pms/internal/cli"

func main() {
	cli.Execute()
}
