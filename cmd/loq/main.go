// cmd/loq/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"loq/cmd/loq/commands"
)

const VERSION = "0.1.0"

// Build variables - can be set during build with ldflags
var (
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.SetFlags(0)
	name, args := resolve(os.Args[1:])

	switch name {
	case "help":
		showUsage()
	case "version":
		showVersion()
	case "repl":
		exit(commands.REPLCommand(args))
	case "run":
		exit(commands.RunCommand(args))
	case "check":
		exit(commands.CheckCommand(args))
	case "ast":
		exit(commands.ASTCommand(args))
	case "ir":
		exit(commands.IRCommand(args))
	case "fmt":
		exit(commands.FormatCommand(args))
	case "serve":
		exit(commands.ServeCommand(args))
	case "history":
		exit(commands.HistoryCommand(args))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		showUsage()
		os.Exit(2)
	}
}

var subcommands = map[string]bool{
	"repl": true, "run": true, "check": true, "ast": true,
	"ir": true, "fmt": true, "serve": true, "history": true,
}

// resolve picks the command for a command line. With no command the REPL
// starts, taking any leading flags, and a bare file argument runs the file.
func resolve(args []string) (string, []string) {
	if len(args) == 0 {
		return "repl", nil
	}
	switch args[0] {
	case "--help", "-h", "help":
		return "help", nil
	case "--version", "-v", "version":
		return "version", nil
	}
	if subcommands[args[0]] {
		return args[0], args[1:]
	}
	if strings.HasPrefix(args[0], "-") {
		return "repl", args
	}
	if _, err := os.Stat(args[0]); err == nil {
		return "run", args
	}
	return args[0], nil
}

func exit(err error) {
	if err == nil {
		return
	}
	if commands.IsReported(err) {
		os.Exit(1)
	}
	log.Fatalf("Error: %v", err)
}

func showUsage() {
	fmt.Println("loq - a tiny line-oriented calculator language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  loq [repl] [-r session]     Start the interactive REPL")
	fmt.Println("  loq run [-k] <file.loq>      Run a file line by line")
	fmt.Println("  loq check <file.loq>         Check syntax without running")
	fmt.Println("  loq ast <file.loq>           Print the parsed statements")
	fmt.Println("  loq fmt [-w] <file.loq>      Print or rewrite a file in canonical form")
	fmt.Println("  loq ir [-o out.ll] <file>    Emit LLVM IR")
	fmt.Println("  loq serve [-a addr]          Serve sessions over WebSocket at /repl")
	fmt.Println("  loq history [-n count]       List recently evaluated lines")
	fmt.Println()
	fmt.Println("Options for every command:")
	fmt.Println("  -c FILE    config file (default: nearest .loq.yml)")
	fmt.Println("  -s         strict lexing: report unrecognized characters")
	fmt.Println("  -x         allow variables as operands of + and -")
	fmt.Println("  -C MODE    color output: auto, always, never")
	fmt.Println()
	fmt.Println("Language:")
	fmt.Println("  let x = 1 + 2;   pn x;   pnl 5 - 2;")
}

func showVersion() {
	fmt.Printf("loq v%s\n", VERSION)
	fmt.Printf("Build Date: %s\n", BuildDate)
	if GitCommit != "unknown" {
		fmt.Printf("Git Commit: %s\n", GitCommit)
	}
}
