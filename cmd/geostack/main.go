package main

import (
	"fmt"
	"os"

	"github.com/geonode-contrib/geostack/pkg/style"
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.Render(style.ErrorStyle, "Error: ")+err.Error())
		os.Exit(1)
	}
}
