// Package main starts the saga turn service.
//
// This process owns the HTTP surface for player turns and the session
// store; lore content is read from a local directory.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	sagacmd "github.com/frostworks/drogvyn/internal/cmd/saga"
)

func main() {
	cfg, err := sagacmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SAGA] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sagacmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
