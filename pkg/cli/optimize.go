/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"

	"github.com/NVIDIA/drip-optimizer/pkg/header"
	"github.com/NVIDIA/drip-optimizer/pkg/optimizer"
	"github.com/NVIDIA/drip-optimizer/pkg/serializer"
)

// OptimizationReport is the document emitted by the optimize command.
type OptimizationReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Request  *optimizer.Request     `json:"request" yaml:"request"`
	Response *optimizer.Response    `json:"response" yaml:"response"`
	Stats    *optimizer.SearchStats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

func newOptimizationReport(source string, req *optimizer.Request, resp *optimizer.Response, stats *optimizer.SearchStats) *OptimizationReport {
	r := &OptimizationReport{
		Request:  req,
		Response: resp,
		Stats:    stats,
	}
	r.Init(header.KindOptimizationReport, version)
	r.Metadata["source"] = source
	return r
}

func optimizeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "optimize",
		EnableShellCompletion: true,
		Usage:                 "Assign drippers to plants for one shared irrigation run",
		Description: `Solve a per-plant optimization request. The request lists the plants
(target volume, tolerance, emitter limit) and the available dripper types
(flow rate, optional count).

The result minimizes the total number of emitters, then the irrigation time.
It is emitted as an OptimizationReport in JSON, YAML, or table format, or as a
human readable summary.

# Examples

  dripctl optimize --input request.yaml
  dripctl optimize --input https://example.com/request.json --format summary
  cat request.json | dripctl optimize --input - --format json --output report.json`,
		Flags: []cli.Flag{
			inputFlag(),
			timeoutFlag(),
			workersFlag(),
			&cli.StringFlag{
				Name:    "locale",
				Value:   "en",
				Usage:   "BCP 47 language tag used for numbers in the summary format",
				Sources: cli.EnvVars(envVar("LOCALE")),
			},
			outputFlag(),
			formatFlag(formatSummary),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			summary := cmd.String("format") == formatSummary

			var outFormat serializer.Format
			var tag language.Tag
			var err error
			if summary {
				if tag, err = language.Parse(cmd.String("locale")); err != nil {
					return fmt.Errorf("invalid locale %q: %w", cmd.String("locale"), err)
				}
			} else if outFormat, err = parseOutputFormat(cmd); err != nil {
				return err
			}

			req, err := loadRequest(ctx, cmd)
			if err != nil {
				return err
			}

			resp, stats, err := newOptimizer(cmd).OptimizeWithStats(ctx, req)
			if err != nil {
				if stats != nil {
					slog.Debug("search statistics", "explored", stats.NodesExplored, "elapsed", stats.Elapsed)
				}
				return fmt.Errorf("optimization failed: %w", err)
			}

			report := newOptimizationReport(cmd.String("input"), req, resp, stats)

			if summary {
				return writeSummaryTo(cmd, tag, report)
			}
			return writeOutput(ctx, cmd, outFormat, report)
		},
	}
}

// writeSummaryTo renders the summary to --output, or the root writer when unset.
func writeSummaryTo(cmd *cli.Command, tag language.Tag, report *OptimizationReport) error {
	var out io.Writer = os.Stdout
	if root := cmd.Root(); root != nil && root.Writer != nil {
		out = root.Writer
	}

	if path := strings.TrimSpace(cmd.String("output")); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", path, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				slog.Warn("failed to close output file", "error", err, "path", path)
			}
		}()
		out = f
	}

	return writeSummary(out, tag, report)
}
