package main

import (
	"log"
	"os"

	"github.com/alphamano814/exam-jyoti/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
