package console

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Connect(ctx context.Context) error
	Tokens(ctx context.Context) error
	Balance(ctx context.Context) error
	Mint(ctx context.Context) error
	Deploy(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the contract console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//   - help:        show available commands
//   - connect:     attach to a contract address
//   - tokens:      list minted tokens with owners and URIs
//   - balance:     token balance of a wallet
//   - mint:        generate a drop, pin it and mint the batch
//   - deploy:      deploy a fresh series contract
//   - exit | quit: leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("drop> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: connect, (t)okens, (b)alance, mint, deploy, exit")

		case "connect":
			_ = a.Connect(ctx)

		case "t", "tokens":
			_ = a.Tokens(ctx)

		case "b", "balance":
			_ = a.Balance(ctx)

		case "mint":
			_ = a.Mint(ctx)

		case "deploy":
			_ = a.Deploy(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
