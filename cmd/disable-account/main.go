// disable-account - Account Containment Responder
//
// This executable is spawned by the Bastille execd daemon when a detection
// rule calls for locking a local user account (or unlocking it again when
// the containment expires). It is deliberately one-shot and single-threaded:
//   - Read exactly one JSON command message from stdin
//   - For containments, confirm with execd via the check_keys round-trip
//   - Resolve the host into an account-lock capability (passwd or chuser)
//   - Dispatch the utility and wait for it
//   - Write one outcome line to the shared active-response log and exit
//
// Exit status is 0 whenever the invocation terminated as intended, which
// includes declined confirmations and hosts without the capability; nonzero
// means invalid input or a utility that could not be spawned. execd reads
// nothing else from this process, so the exit code is the whole interface.
//
// Configuration is loaded from /etc/bastille/responder.yaml (or the path
// given by -config). The file is optional; a missing or broken config must
// never block a remediation, so defaults apply in both cases.
//
// Timeouts are execd's concern: it bounds the wall clock of the whole
// invocation and closes stdin on cancellation, which this process observes
// as a read error. No signal handling is installed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastille-sec/responder/internal/action"
	"github.com/bastille-sec/responder/internal/config"
	"github.com/bastille-sec/responder/internal/debuglog"
	"github.com/bastille-sec/responder/internal/executor"
	"github.com/bastille-sec/responder/internal/response"
	"github.com/bastille-sec/responder/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.DefaultConfigPath, "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	printConfig := flag.Bool("print-config", false, "print the default configuration as YAML and exit")
	flag.Parse()

	program := filepath.Base(os.Args[0])

	if *showVersion {
		fmt.Println(version.Info(program))
		return 0
	}

	if *printConfig {
		data, err := config.Default().YAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return response.ExitInvalid
		}
		os.Stdout.Write(data)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Remediation outranks configuration hygiene: run with defaults
		// rather than leave the account untouched. Operators can vet a
		// config by hand with -print-config and a test invocation.
		cfg = config.Default()
	}

	act, ok := action.Lookup(action.AccountName)
	if !ok {
		fmt.Fprintln(os.Stderr, "ERROR: account action not registered")
		return response.ExitInvalid
	}

	log := debuglog.Open(program, debuglog.Destination(cfg.LogDestination), cfg.LogPath)
	defer log.Close()

	eng := response.New(act, response.Options{
		Program: program,
		In:      os.Stdin,
		Out:     os.Stdout,
		Log:     log,
		Runner:  executor.New(cfg.ExecTimeout()),
	})

	return eng.Run(context.Background()).ExitCode()
}
