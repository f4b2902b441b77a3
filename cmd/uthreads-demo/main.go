// Package main implements the uthreads-demo CLI.
//
// The tool runs small end-to-end scheduling scenarios against the thread
// library: round-robin rotation, quantum accounting, mutex contention,
// blocking and resuming, self-termination with id reuse, and a scheduler
// state dump. Each scenario is an ordinary program built on the public API;
// together they exercise every operation the library offers.
//
// Usage:
//
//	uthreads-demo list            # name and describe the scenarios
//	uthreads-demo run <scenario>  # run one scenario in this process
//	uthreads-demo all             # run every scenario, each in a child process
//	uthreads-demo version
//
// Scenarios that terminate the main thread end the process, which is why
// 'all' runs each scenario in a child process of its own.
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/uthreads/uthread"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "list":
		listScenarios()
	case "run":
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, "Error: 'run' takes exactly one scenario name")
			os.Exit(1)
		}
		runScenario(os.Args[2])
	case "all":
		runAll()
	case "version", "--version", "-v":
		fmt.Printf("uthreads-demo version %s\n", uthread.Version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("uthreads-demo - scheduling scenarios for the uthreads library")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  uthreads-demo list            List available scenarios")
	fmt.Println("  uthreads-demo run <scenario>  Run one scenario in this process")
	fmt.Println("  uthreads-demo all             Run every scenario in child processes")
	fmt.Println("  uthreads-demo version         Print the library version")
}

func listScenarios() {
	fmt.Println("Available scenarios:")
	for _, s := range scenarios {
		fmt.Printf("  %-14s %s\n", s.name, s.describe)
	}
}

func runScenario(name string) {
	for _, s := range scenarios {
		if s.name == name {
			s.run()
			return
		}
	}
	fmt.Fprintf(os.Stderr, "Error: unknown scenario %q (try 'uthreads-demo list')\n", name)
	os.Exit(1)
}
