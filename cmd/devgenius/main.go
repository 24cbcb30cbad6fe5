package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags
var Version = "dev"

const pidFile = "devgeniusd.pid"

// daemonAddr is where the CLI looks for a running daemon
var daemonAddr = envOr("DEVGENIUS_DAEMON_URL", "http://127.0.0.1:7433")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "explain":
		err = cmdExplain(os.Args[2:])
	case "chat":
		err = cmdChat(os.Args[2:])
	case "review":
		err = cmdReview(os.Args[2:])
	case "metrics":
		err = cmdMetrics(os.Args[2:])
	case "mode":
		err = cmdMode(os.Args[2:])
	case "challenge", "challenges":
		err = cmdChallenge(os.Args[2:])
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "doctor":
		err = cmdDoctor()
	case "config":
		err = cmdConfig()
	case "provider":
		err = cmdProvider(os.Args[2:])
	case "events":
		err = cmdEvents(os.Args[2:])
	case "mcp":
		err = cmdMCP(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("devgenius %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`DevGenius - Your AI coding tutor

Usage:
  devgenius <command> [arguments]

Tutor Commands:
  explain [file|-]         Explain a code snippet (reads stdin by default)
  chat [--dev] <message>   Ask the tutor a question
  review [file|-]          Score code and list suggestions
  metrics [file|-]         Show lines, characters, complexity, readability
  mode                     Show or change the tutor mode (get|set|toggle)

Challenge Commands:
  challenge list           List practice challenges
  challenge info <id>      Show a challenge with its starter code

Daemon Commands:
  start                    Start the DevGenius daemon
  stop                     Stop the DevGenius daemon
  status                   Show daemon status
  logs                     View daemon logs

Setup Commands:
  doctor                   Check configuration and providers
  config                   Show current configuration
  provider                 Manage LLM providers

Integration Commands:
  mcp [--http addr]        Start MCP server (stdio by default)
  events tail              Print advice events from RabbitMQ

Other:
  help                     Show this help message
  version                  Show version information

Tutor commands use the daemon when it is running and work in-process otherwise.

Examples:
  devgenius explain main.js
  echo 'const x = 1;' | devgenius explain
  devgenius chat --dev "how do loops work?"
  devgenius mode toggle
  devgenius challenge list --difficulty beginner
  devgenius provider set-key gemini`)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
