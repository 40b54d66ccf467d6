/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/drip-optimizer/pkg/header"
	"github.com/NVIDIA/drip-optimizer/pkg/optimizer"
)

// CandidateReport lists one plant's candidate allocations in search order.
type CandidateReport struct {
	header.Header `json:",inline" yaml:",inline"`

	PlantID    string           `json:"plantId" yaml:"plantId"`
	Total      int              `json:"total" yaml:"total"`
	Pruned     int64            `json:"pruned" yaml:"pruned"`
	Dominated  int64            `json:"dominated" yaml:"dominated"`
	Candidates []CandidateEntry `json:"candidates" yaml:"candidates"`
}

// CandidateEntry is a single candidate with its duration window in seconds.
type CandidateEntry struct {
	Rank       int                           `json:"rank" yaml:"rank"`
	Emitters   int                           `json:"emitters" yaml:"emitters"`
	FlowLPH    float64                       `json:"flowLph" yaml:"flowLph"`
	MinSeconds float64                       `json:"minSeconds" yaml:"minSeconds"`
	MaxSeconds float64                       `json:"maxSeconds" yaml:"maxSeconds"`
	Drippers   []optimizer.DripperAllocation `json:"drippers" yaml:"drippers"`
}

func newCandidateReport(source, plantID string, drippers []optimizer.DripperType, res *optimizer.GenerateResult, limit int) *CandidateReport {
	r := &CandidateReport{
		PlantID:    plantID,
		Total:      len(res.Candidates),
		Pruned:     res.Pruned,
		Dominated:  res.Dominated,
		Candidates: make([]CandidateEntry, 0, len(res.Candidates)),
	}
	r.Init(header.KindCandidateReport, version)
	r.Metadata["source"] = source

	for i := range res.Candidates {
		if limit > 0 && i >= limit {
			break
		}
		c := &res.Candidates[i]
		r.Candidates = append(r.Candidates, CandidateEntry{
			Rank:       i,
			Emitters:   c.TotalEmitters,
			FlowLPH:    c.TotalFlow,
			MinSeconds: c.TMin * optimizer.SecondsPerHour,
			MaxSeconds: c.TMax * optimizer.SecondsPerHour,
			Drippers:   c.Drippers(drippers),
		})
	}
	return r
}

func candidatesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "candidates",
		EnableShellCompletion: true,
		Usage:                 "List the feasible allocations of one plant",
		Description: `Generate the candidate set of a single plant from an optimization request
without running the global search. Candidates are listed in search order:
fewest emitters first, then earliest feasible irrigation time. The rank is the
tie-breaker used between otherwise equal solutions.

# Examples

  dripctl candidates --input request.yaml --plant plant_1
  dripctl candidates --input request.yaml --plant plant_1 --limit 10 --format table`,
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{
				Name:     "plant",
				Aliases:  []string{"p"},
				Required: true,
				Usage:    "ID of the plant whose candidates are listed",
				Sources:  cli.EnvVars(envVar("PLANT")),
			},
			&cli.IntFlag{
				Name:    "limit",
				Usage:   "Maximum number of candidates to print (0 prints all)",
				Sources: cli.EnvVars(envVar("LIMIT")),
			},
			timeoutFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			limit := int(cmd.Int("limit"))
			if limit < 0 {
				return fmt.Errorf("invalid limit %d: must be at least 0", limit)
			}

			req, err := loadRequest(ctx, cmd)
			if err != nil {
				return err
			}

			plantID := cmd.String("plant")
			res, err := newOptimizer(cmd).Candidates(ctx, req, plantID)
			if err != nil {
				return fmt.Errorf("failed to generate candidates: %w", err)
			}

			report := newCandidateReport(cmd.String("input"), plantID, req.AvailableDrippers, res, limit)
			return writeOutput(ctx, cmd, outFormat, report)
		},
	}
}
