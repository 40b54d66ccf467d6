/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/drip-optimizer/pkg/defaults"
	"github.com/NVIDIA/drip-optimizer/pkg/optimizer"
	"github.com/NVIDIA/drip-optimizer/pkg/serializer"
)

// formatSummary is the human readable report format of the optimize command.
const formatSummary = "summary"

func inputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Required: true,
		Usage: `Path/URI of the optimization request (JSON or YAML).
	Supports: file paths, HTTP/HTTPS URLs, or - for stdin.`,
		Sources: cli.EnvVars(envVar("INPUT")),
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
		Sources: cli.EnvVars(envVar("OUTPUT")),
	}
}

func formatFlag(extra ...string) *cli.StringFlag {
	supported := append(serializer.SupportedFormats(), extra...)
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(supported, ", ")),
		Sources: cli.EnvVars(envVar("FORMAT")),
	}
}

func timeoutFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:    "timeout",
		Value:   defaults.CLIOptimizeTimeout,
		Usage:   "Time budget of the optimization (0 disables the budget)",
		Sources: cli.EnvVars(envVar("TIMEOUT")),
	}
}

func workersFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "workers",
		Usage:   "Goroutines used by the search (default: number of CPUs)",
		Sources: cli.EnvVars(envVar("WORKERS")),
	}
}

// parseOutputFormat returns the serializer format selected by --format.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported values: %s)",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// newOptimizer builds an optimizer from --timeout and --workers.
func newOptimizer(cmd *cli.Command) *optimizer.Optimizer {
	timeout := cmd.Duration("timeout")
	if timeout < 0 {
		timeout = 0
	}
	return optimizer.New(
		optimizer.WithTimeout(timeout),
		optimizer.WithWorkers(int(cmd.Int("workers"))),
	)
}

// loadRequest reads the request named by --input.
func loadRequest(ctx context.Context, cmd *cli.Command) (*optimizer.Request, error) {
	src := cmd.String("input")
	req, err := serializer.FromSource[optimizer.Request](ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load request from %q: %w", src, err)
	}
	return req, nil
}

// writeOutput serializes v to --output, or stdout when unset.
func writeOutput(ctx context.Context, cmd *cli.Command, format serializer.Format, v any) error {
	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	return ser.Serialize(ctx, v)
}
