package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/render"
)

// newExplainCmd builds `fa explain`: given a previously written JSON report
// and a resource id, it prints that resource's findings with their evidence.
func newExplainCmd() *cobra.Command {
	var (
		reportPath string
		resourceID string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain the findings for one resource from a saved report",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := readReportFile(reportPath)
			if err != nil {
				return err
			}
			if report.Summary == nil {
				return fmt.Errorf("report %s carries no audit summary", reportPath)
			}

			findings := render.FindingsForResource(report.Summary.AllFindings, resourceID)
			if jsonOut {
				return render.WriteExplainJSON(cmd.OutOrStdout(), resourceID, findings)
			}
			render.RenderResourceExplanation(cmd.OutOrStdout(), resourceID, findings)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Path to a JSON report produced by fa aws audit cost --output")
	cmd.Flags().StringVar(&resourceID, "resource", "", "Resource ID to explain")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the explanation as JSON")
	_ = cmd.MarkFlagRequired("report")
	_ = cmd.MarkFlagRequired("resource")

	return cmd
}

func readReportFile(path string) (*models.AuditReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	var report models.AuditReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}
