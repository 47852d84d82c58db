// cmd/opsisd/main.go
package main

import "github.com/tamzrod/opsis-console/cmd/opsisd/cmd"

func main() {
	cmd.Execute()
}
