package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksheet <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ledger       Render consolidated semester marksheets")
	fmt.Fprintln(w, "  gradecard    Render merged per-student grade cards")
	fmt.Fprintln(w, "  hallticket   Render examination hall tickets")
	fmt.Fprintln(w, "  layout       Show the column layout of a roster")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'marksheet help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the document commands.
func printRenderUsage(w io.Writer, cmd string) {
	fmt.Fprintf(w, "Usage: marksheet %s <input> [flags]\n", cmd)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Roster YAML file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings:")
	fmt.Fprintln(w, "      --settings <path>     Template settings YAML file")
	fmt.Fprintln(w, "      --dsn <dsn>           PostgreSQL settings database")
	fmt.Fprintln(w, "      --institution <code>  Institution code")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Backend:")
	fmt.Fprintln(w, "      --backend <name>      fpdf (default) or browser")
	fmt.Fprintln(w, "      --style <name>        Browser stylesheet: marksheet, compact")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom browser styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --exam-name <s>       Examination name")
	fmt.Fprintln(w, "      --month-year <s>      Month and year: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "      --session <s>         Examination session")
	fmt.Fprintln(w, "      --batch <s>           Student batch")
	fmt.Fprintln(w, "      --title <s>           Document title")
	fmt.Fprintln(w, "      --cluster-groups      Order course columns by column group (CG1..CG4)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors and skipped students")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printLayoutUsage prints usage for the layout command.
func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksheet layout <input.yaml> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the course order to column group table and the header layout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -k, --kind <s>            ledger (default), gradecard, hallticket")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --settings <path>     Template settings YAML file")
	fmt.Fprintln(w, "      --dsn <dsn>           PostgreSQL settings database")
	fmt.Fprintln(w, "      --institution <code>  Institution code")
	fmt.Fprintln(w, "      --cluster-groups      Order course columns by column group (CG1..CG4)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdLedger, cmdGradeCard, cmdHallTicket:
		printRenderUsage(env.Stdout, args[0])
	case "layout":
		printLayoutUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: marksheet version")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: marksheet help [command]")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
