// Command gelc reads a gel program from stdin, checks it, translates it
// to C, and (unless told otherwise) compiles and runs the result.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/eaburns/pretty"
	"github.com/gel-lang/gelc/cgen"
	"github.com/gel-lang/gelc/parser"
	"github.com/gel-lang/gelc/sem"
)

const version = "gelc 0.1.0"

func main() {
	outPath := flag.String("o", ".gel-output.c", "path to write the generated C source to")
	dumpAST := flag.Bool("dump-ast", false, "pretty-print the annotated tree to stderr before emission")
	noRun := flag.Bool("no-run", false, "stop after compiling the generated C source; do not run it")
	cc := flag.String("cc", "cc", "host C compiler to invoke")
	showVersion := flag.Bool("version", false, "print the compiler version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	os.Exit(run(*outPath, *cc, *dumpAST, *noRun))
}

func run(outPath, cc string, dumpAST, noRun bool) int {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	prog, err := parser.Parse("stdin", string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result := sem.Check(prog)
	color := isTerminal(os.Stderr)
	result.Report.Fprint(os.Stderr, color)
	if result.Report.ErrorCount() > 0 {
		return 1
	}

	if dumpAST {
		pretty.Indent = "  "
		pretty.Print(result.Program)
		fmt.Fprintln(os.Stderr)
	}

	generated := cgen.Compile(result.Program)
	if err := os.WriteFile(outPath, []byte(generated), 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	binPath := outPath + ".bin"
	compile := exec.Command(cc, outPath, "-o", binPath)
	compile.Stderr = os.Stderr
	compile.Stdout = os.Stdout
	if err := compile.Run(); err != nil {
		return exitCode(err, 1)
	}
	if noRun {
		return 0
	}

	runCmd := exec.Command(binPath)
	runCmd.Stdin = os.Stdin
	runCmd.Stdout = os.Stdout
	runCmd.Stderr = os.Stderr
	if err := runCmd.Run(); err != nil {
		return exitCode(err, 1)
	}
	return 0
}

func exitCode(err error, fallback int) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	fmt.Fprintln(os.Stderr, err)
	return fallback
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
