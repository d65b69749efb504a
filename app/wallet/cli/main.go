package main

import "github.com/ixianlabs/dlt/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
