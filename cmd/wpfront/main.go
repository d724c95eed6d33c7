package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	var args []string
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe()
	case "inbox":
		err = runInbox(args)
	case "version":
		fmt.Printf("wpfront %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`wpfront - A storefront and blog in front of WordPress/WooCommerce

Usage:
  wpfront [command] [arguments]

Commands:
  serve         Start the web server (default)
  inbox [-n N]  Print the latest contact messages
  version       Print the wpfront version
  help          Show this help message

Configuration is read from the environment and an optional .env file.
SESSION_SECRET is required to serve.`)
}
