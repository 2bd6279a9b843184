// openclaw-audit - local security auditor for an OpenClaw installation.
//
// Flags:
//   --path <dir>       Installation directory (default: platform locations)
//   --workspace <dir>  Agent workspace to include in the scan
//   --deep             Lift session-log size/line caps
//   --json             Emit the ScanResult as JSON
//   --fix              Apply safe fixes; prompt for behavioral ones
//   --yes              Approve all behavioral fixes without prompting
//   --watch            Re-scan when installation files change
//   --no-color         Disable colored output
//   --debug            Verbose logging
//   --version          Show version information

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/clawsec/openclaw-audit/internal/audit"
	"github.com/clawsec/openclaw-audit/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)

type cliFlags struct {
	installPath   string
	workspacePath string
	deep          bool
	jsonOut       bool
	fix           bool
	yes           bool
	watch         bool
	noColor       bool
	debug         bool
	upload        bool
	showVersion   bool
}

func main() {
	flags, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
	if flags.showVersion {
		fmt.Printf("openclaw-audit %s (built %s)\n", Version, BuildDate)
		return
	}

	logging.Init(flags.debug)
	if flags.noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	opts := audit.Options{
		InstallPath:   flags.installPath,
		WorkspacePath: flags.workspacePath,
		Deep:          flags.deep,
		Upload:        flags.upload,
	}

	if flags.watch {
		runWatch(opts, flags.jsonOut)
		return
	}

	result, err := audit.Run(context.Background(), opts)
	if err != nil {
		if errors.Is(err, audit.ErrNoInstallation) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run the agent once to create its installation directory, or pass --path <dir>.")
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
	if flags.upload {
		fmt.Fprintln(os.Stderr, "WARNING: --upload is not implemented; results stay on this machine")
	}

	if flags.jsonOut {
		renderJSON(os.Stdout, result)
	} else {
		renderText(os.Stdout, result)
	}

	if flags.fix {
		approve := promptApprover()
		if flags.yes {
			approve = audit.ApproveAll
		}
		installDir, err := audit.ResolveInstallDir(flags.installPath)
		if err == nil {
			files := audit.Discover(installDir, flags.workspacePath)
			fixes := audit.ApplyFixes(result.Findings, audit.FixOptions{
				ConfigPath:   files.ConfigPath,
				InstallDir:   installDir,
				WorkspaceDir: files.WorkspaceDir,
				Approve:      approve,
			})
			renderFixResults(os.Stdout, fixes)
		}
	}

	if result.HasCritical() {
		os.Exit(1)
	}
}

func parseArgs(args []string) (cliFlags, error) {
	var f cliFlags
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--path":
			if i+1 >= len(args) {
				return f, errors.New("--path requires a value")
			}
			f.installPath = args[i+1]
			i++
		case "--workspace":
			if i+1 >= len(args) {
				return f, errors.New("--workspace requires a value")
			}
			f.workspacePath = args[i+1]
			i++
		case "--deep":
			f.deep = true
		case "--json":
			f.jsonOut = true
		case "--fix":
			f.fix = true
		case "--yes", "-y":
			f.yes = true
		case "--watch":
			f.watch = true
		case "--no-color":
			f.noColor = true
		case "--debug":
			f.debug = true
		case "--upload":
			f.upload = true
		case "--version":
			f.showVersion = true
		case "--help", "-h":
			usage()
			os.Exit(0)
		default:
			return f, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return f, nil
}

func usage() {
	fmt.Println("openclaw-audit [--path <dir>] [--workspace <dir>] [--deep] [--json]")
	fmt.Println("               [--fix] [--yes] [--watch] [--no-color] [--debug]")
}

// promptApprover reads a per-fix yes/no from the terminal. On a non-TTY
// stdin every behavioral fix is declined; unattended runs must opt in with
// --yes.
func promptApprover() audit.Approver {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return audit.DeclineAll
	}
	reader := bufio.NewReader(os.Stdin)
	return func(f audit.Finding) bool {
		fmt.Printf("\nApply fix for %s?\n  %s\n  %s\n[y/N] ", f.ID, f.Title, f.Description)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
