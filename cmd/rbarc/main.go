// Command rbarc is a command-line driver for the single-file archive store
// implemented by this module: init/add/addfile/get/list/delete/stat/fsck.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/scigolib/rbarc"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rbarc", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "raise log verbosity")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	logger := newLogger(*verbose)
	if *verbose {
		rbarc.Verbose = logger
	}

	cmdArgs := fs.Args()
	if len(cmdArgs) < 2 {
		usage()
		return 1
	}

	cmd, file := cmdArgs[0], cmdArgs[1]
	rest := cmdArgs[2:]

	err := dispatch(cmd, file, rest, logger)
	if err != nil {
		printError(logger, err)
		return rbarc.ExitCode(err)
	}
	return 0
}

func dispatch(cmd, file string, rest []string, logger *log.Logger) error {
	switch cmd {
	case "init":
		return rbarc.Init(file)

	case "add":
		if len(rest) != 2 {
			return fmt.Errorf("usage: rbarc add <file> <name> <content>")
		}
		return withArchive(file, func(a *rbarc.Archive) error {
			return a.Put(rest[0], []byte(rest[1]))
		})

	case "addfile":
		if len(rest) != 2 {
			return fmt.Errorf("usage: rbarc addfile <file> <name> <srcpath>")
		}
		//nolint:gosec // G304: user-provided source path is the whole point of this subcommand
		data, err := os.ReadFile(rest[1])
		if err != nil {
			return err
		}
		return withArchive(file, func(a *rbarc.Archive) error {
			return a.Put(rest[0], data)
		})

	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("usage: rbarc get <file> <name>")
		}
		var data []byte
		err := withArchive(file, func(a *rbarc.Archive) error {
			var err error
			data, err = a.Get(rest[0])
			return err
		})
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err

	case "list":
		return withArchive(file, func(a *rbarc.Archive) error {
			return a.List(func(name string, originalSize, compressedSize uint64) error {
				fmt.Printf("%s\t%d\t%d\n", name, originalSize, compressedSize)
				return nil
			})
		})

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: rbarc delete <file> <name>")
		}
		return withArchive(file, func(a *rbarc.Archive) error {
			return a.Delete(rest[0])
		})

	case "stat":
		st, err := rbarc.StatArchive(file)
		if err != nil {
			return err
		}
		fmt.Printf("entries:    %d\n", st.EntryCount)
		fmt.Printf("root:       %d\n", st.Root)
		fmt.Printf("next_free:  %d\n", st.NextFree)
		fmt.Printf("total_size: %d\n", st.TotalSize)
		fmt.Printf("file_size:  %d\n", st.FileSize)
		return nil

	case "fsck":
		report, err := rbarc.Fsck(file)
		if err != nil {
			return err
		}
		if report.OK() {
			fmt.Println(colorize(true, "ok: no invariant violations"))
			return nil
		}
		for _, v := range report.Violations {
			fmt.Println(colorize(false, "violation: "+v))
		}
		return fmt.Errorf("fsck: %d violation(s) found", len(report.Violations))

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func withArchive(path string, fn func(*rbarc.Archive) error) (err error) {
	a, err := rbarc.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	err = fn(a)
	return err
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rbarc [-v] <command> <file> [args...]")
	fmt.Fprintln(os.Stderr, "commands: init add addfile get list delete stat fsck")
	flag.PrintDefaults()
}

func printError(logger *log.Logger, err error) {
	msg := colorize(false, err.Error())
	if _, werr := io.WriteString(os.Stderr, msg+"\n"); werr != nil {
		logger.Printf("failed to write error to stderr: %v", werr)
	}
}

// colorize applies a minimal ANSI color when standard error is attached to
// a terminal, matching the pattern this codebase's other CLI uses for
// unconditional plain-text output: detect the common case rather than
// depending on an external terminal-capability library.
func colorize(ok bool, msg string) string {
	if !isTerminal(os.Stderr) {
		return msg
	}
	const green = "\x1b[32m"
	const red = "\x1b[31m"
	const reset = "\x1b[0m"
	if ok {
		return green + msg + reset
	}
	return red + msg + reset
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func newLogger(verbose bool) *log.Logger {
	level := os.Getenv("RBARC_LOG_LEVEL")
	prefix := "rbarc: "
	if verbose && level == "" {
		level = "debug"
	}
	flags := log.LstdFlags
	if level == "debug" {
		flags |= log.Lshortfile
	}
	return log.New(os.Stderr, prefix, flags)
}
