// Command daoctl drives the DAO backend from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer func() { _ = logger.Sync() }()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
