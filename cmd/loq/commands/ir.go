// cmd/loq/commands/ir.go
package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"loq/internal/compiler"
)

// IRCommand writes the LLVM IR for a file to stdout, or to -o FILE.
func IRCommand(args []string) error {
	o, err := parseOptions("ir", args, "o:")
	if err != nil {
		return err
	}
	filename, err := o.fileArg("ir")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := emitIR(filename, o, &buf, os.Stderr); err != nil {
		return err
	}
	path, ok := o.Flags['o']
	if !ok {
		_, err = buf.WriteTo(os.Stdout)
		return err
	}
	return writeOutput(path, buf.Bytes())
}

// writeOutput creates path only once the content is complete.
func writeOutput(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func emitIR(filename string, o *Options, out, stderr io.Writer) error {
	nodes, err := parseFile(filename, o, stderr)
	if err != nil {
		return err
	}
	c := compiler.NewCompiler()
	if err := c.Compile(nodes); err != nil {
		report(stderr, err)
		return errReported
	}
	_, err = fmt.Fprint(out, c.Module().String())
	return err
}
