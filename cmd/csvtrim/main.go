package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := Execute(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]...)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
