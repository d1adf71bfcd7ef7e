package main

import "github.com/ChaChaChung/seo-site/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
