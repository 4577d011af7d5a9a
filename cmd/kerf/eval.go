package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/app"
)

var errEvalFailed = errors.New("evaluation failed")

type outputFlags struct {
	format string
	output string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "summary", "output format (summary, json)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
}

// write renders r and turns a failed evaluation into errEvalFailed.
func (f *outputFlags) write(cmd *cobra.Command, r app.Result) error {
	w := cmd.OutOrStdout()
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	if err := writeResult(w, r, f.format); err != nil {
		return err
	}
	if !r.OK() {
		return errEvalFailed
	}
	return nil
}

func writeResult(w io.Writer, r app.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "summary", "":
		return writeSummary(w, r)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newEvalCmd(o *options) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate a design and report its parts",
		Long: `Evaluate a design and report its parts.

The source is read from the file argument, or from stdin when the
argument is missing or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			a, err := app.New(o.cfg, o.log)
			if err != nil {
				return err
			}
			return out.write(cmd, a.Evaluate(source))
		},
	}
	out.register(cmd)
	return cmd
}

func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "", errors.New("no input: pass a file or pipe source on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func newCubeCmd(o *options) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "cube [edge-length]",
		Short: "Build and report a cube centred on the origin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edge := 1.0
			if len(args) == 1 {
				var err error
				if edge, err = strconv.ParseFloat(args[0], 64); err != nil {
					return fmt.Errorf("edge length: %w", err)
				}
			}
			a, err := app.New(o.cfg, o.log)
			if err != nil {
				return err
			}
			return out.write(cmd, a.Evaluate(fmt.Sprintf(`(defpart "cube" (cube %s))`, strconv.FormatFloat(edge, 'f', -1, 64))))
		},
	}
	out.register(cmd)
	return cmd
}
