// Command family converts, packs and inspects family documents.
package main

import (
	"os"

	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd(viper.New(), os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
