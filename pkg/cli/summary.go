/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/NVIDIA/drip-optimizer/pkg/optimizer"
)

// writeSummary prints a human readable rendering of the report with numbers
// formatted for tag.
func writeSummary(w io.Writer, tag language.Tag, report *OptimizationReport) error {
	p := message.NewPrinter(tag)
	resp := report.Response

	run := time.Duration(resp.BaseIrrigationTimeSeconds * float64(time.Second)).Round(time.Second)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p.Fprintf(tw, "Irrigation time:\t%v (%.2f s)\n", run, resp.BaseIrrigationTimeSeconds)
	p.Fprintf(tw, "Total emitters:\t%d\n", resp.TotalDrippersUsed)
	p.Fprintf(tw, "Total flow:\t%.3f L/h\n", resp.TotalFlowLPH)
	p.Fprintf(tw, "Total volume:\t%.3f L\n", resp.TotalBaseVolumeLiters)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PLANT\tVOLUME (L)\tDRIPPERS")
	for _, plant := range resp.Plants {
		p.Fprintf(tw, "%s\t%.3f\t%s\n", plant.PlantID, plant.ActualVolumeLiters, dripperList(plant.AssignedDrippers))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "DRIPPER\tFLOW (L/H)\tCOUNT")
	for _, d := range resp.DrippersUsedDetail {
		p.Fprintf(tw, "%s\t%.3f\t%d\n", d.DripperID, d.FlowRateLPH, d.Count)
	}

	if s := report.Stats; s != nil {
		fmt.Fprintln(tw)
		p.Fprintf(tw, "Search:\t%d nodes explored, %d pruned, %d incumbent updates in %v\n",
			s.NodesExplored, s.NodesPruned, s.IncumbentUpdates, s.Elapsed.Round(time.Microsecond))
	}

	return tw.Flush()
}

func dripperList(allocs []optimizer.DripperAllocation) string {
	parts := make([]string, 0, len(allocs))
	for _, a := range allocs {
		parts = append(parts, fmt.Sprintf("%s x%d", a.DripperID, a.Count))
	}
	return strings.Join(parts, ", ")
}
