// Command flowstats drives the flow generation and collection pipeline
// from the command line. It exposes flows, port and help subcommands.
package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Println("FlowForge - network flow statistics generator")
	fmt.Println()
	fmt.Println("Usage: flowstats <subcommand> [options]")
	fmt.Println()
	fmt.Println("Subcommands:")
	fmt.Println("  flows      Generate and collect flow records")
	fmt.Println("  port       Aggregate port statistics from flows")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Run 'flowstats <subcommand> -h' for subcommand-specific options")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]
	switch subcommand {
	case "-h", "--help", "help":
		printUsage()
		return
	case "flows":
		os.Exit(runFlows(os.Args[2:]))
	case "port":
		os.Exit(runPort(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown subcommand: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}
