package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-cms-authoring/internal/layout"
	"github.com/goliatone/go-cms-authoring/internal/logging"
	"github.com/goliatone/go-cms-authoring/internal/logging/console"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("layout: %v", err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: layout <inspect|apply> [flags]")
	}
	switch args[0] {
	case "inspect":
		return runInspect(args[1:], stdin, stdout)
	case "apply":
		return runApply(args[1:], stdin, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runInspect(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("layout-inspect", flag.ContinueOnError)
	file := fs.String("file", "-", "Layout document to read, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text, err := readInput(*file, stdin)
	if err != nil {
		return err
	}
	assignments, err := layout.Parse(text)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(assignments)
}

type bindingFlags []layout.DatasourceBinding

func (b *bindingFlags) String() string {
	parts := make([]string, 0, len(*b))
	for _, binding := range *b {
		parts = append(parts, binding.RenderingInstanceID+"="+binding.ContentItemID)
	}
	return strings.Join(parts, ",")
}

func (b *bindingFlags) Set(value string) error {
	instance, item, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(instance) == "" || strings.TrimSpace(item) == "" {
		return fmt.Errorf("binding %q must be INSTANCE=ITEM", value)
	}
	*b = append(*b, layout.DatasourceBinding{
		RenderingInstanceID: strings.TrimSpace(instance),
		ContentItemID:       strings.TrimSpace(item),
	})
	return nil
}

func runApply(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("layout-apply", flag.ContinueOnError)
	file := fs.String("file", "-", "Layout document to read, - for stdin")
	var bindings bindingFlags
	fs.Var(&bindings, "bind", "Datasource binding INSTANCE=ITEM, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(bindings) == 0 {
		return errors.New("at least one -bind is required")
	}
	text, err := readInput(*file, stdin)
	if err != nil {
		return err
	}

	level := console.LevelWarn
	provider := console.NewProvider(console.Options{Writer: stderr, MinLevel: &level})
	codec := layout.NewCodec(layout.WithLogger(logging.ModuleLogger(provider, logging.LayoutModule)))
	res, err := codec.ApplyBindings(text, bindings)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, res.Text)
	return err
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
