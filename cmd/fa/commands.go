package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appcfg "github.com/pankaj-dahiya-devops/finops-audit/internal/config"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/engine"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/output"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/providers/aws/billing"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fa",
		Short: "FinOps Audit — cloud cost audit and recommendation engine",
	}
	root.AddCommand(newAWSCmd())
	root.AddCommand(newExplainCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newAWSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aws",
		Short: "AWS provider commands",
	}
	cmd.AddCommand(newAuditCmd())
	return cmd
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run an audit against an AWS account",
	}
	cmd.AddCommand(newCostCmd())
	return cmd
}

func newCostCmd() *cobra.Command {
	var (
		profile     string
		allProfiles bool
		regions     []string
		kinds       []string
		days        int
		reportFmt   string
		summary     bool
		outPath     string
		policyPath  string
		deadline    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Audit AWS cost and identify wasted spend",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := (&appcfg.DefaultLoader{}).Load()
			if err != nil {
				return err
			}
			if profile == "" {
				profile = app.AWS.DefaultProfile
			}
			if policyPath == "" {
				policyPath = app.Audit.PolicyPath
			}
			days = resolveDays(cmd, days, app.Audit.DaysBack)

			auditCfg, err := resolvePolicy(policyPath)
			if err != nil {
				return err
			}

			kindFilter, err := parseKinds(kinds)
			if err != nil {
				return err
			}

			eng := engine.NewDefaultEngine(
				common.NewDefaultClientProvider(),
				inventory.NewDefaultCollector(),
				billing.NewDefaultCollector(),
			)

			opts := engine.AuditOptions{
				Profile:      profile,
				AllProfiles:  allProfiles,
				Regions:      regions,
				Kinds:        kindFilter,
				DaysBack:     days,
				Deadline:     deadline,
				Config:       auditCfg,
				ReportFormat: engine.ReportFormat(reportFmt),
			}

			report, err := eng.RunAudit(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("audit failed: %w", err)
			}

			if outPath != "" {
				if err := writeReportToFile(outPath, report); err != nil {
					return err
				}
			}

			if summary {
				printSummary(os.Stdout, report)
				return nil
			}
			if reportFmt == "json" {
				return printJSON(report)
			}
			printTable(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile name (default: uses environment / default profile)")
	cmd.Flags().BoolVar(&allProfiles, "all-profiles", false, "Audit all configured AWS profiles")
	cmd.Flags().StringSliceVar(&regions, "region", nil, "AWS region(s) to audit (default: all active regions)")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Resource kind(s) to audit: COMPUTE, SERVERLESS, DATABASE, STORAGE, STATIC_IP (default: all)")
	cmd.Flags().IntVar(&days, "days", 30, "Lookback window in days for cost and metric queries")
	cmd.Flags().StringVar(&reportFmt, "report", "table", "Output format: json or table")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print compact summary: totals, severity breakdown, top-5 findings by savings")
	cmd.Flags().StringVar(&outPath, "output", "", "Write full JSON report to this file path (in addition to stdout output)")
	cmd.Flags().StringVar(&policyPath, "policy", "", "Path to the audit policy YAML (default: ./fa.yaml when present)")
	cmd.Flags().DurationVar(&deadline, "deadline", 0, "Bound rule evaluation; kinds still running when it expires report as timed out")

	return cmd
}

// resolveDays yields the config file's days_back unless --days was passed
// explicitly. The flag's default value is not an override.
func resolveDays(cmd *cobra.Command, days, configured int) int {
	if !cmd.Flags().Changed("days") && configured > 0 {
		return configured
	}
	return days
}

// resolvePolicy loads the audit policy from path, or from ./fa.yaml when no
// path is given and the file exists. Without either the defaults apply.
func resolvePolicy(path string) (*policy.AuditConfig, error) {
	if path == "" {
		if _, err := os.Stat("./fa.yaml"); err != nil {
			return nil, nil
		}
		path = "./fa.yaml"
	}
	cfg, err := policy.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseKinds converts --kind flag values into ResourceKinds, rejecting
// unknown names.
func parseKinds(names []string) ([]models.ResourceKind, error) {
	var out []models.ResourceKind
	for _, n := range names {
		kind := models.ResourceKind(strings.ToUpper(strings.TrimSpace(n)))
		if !models.ValidKind(kind) {
			return nil, fmt.Errorf("unknown resource kind %q", n)
		}
		out = append(out, kind)
	}
	return out, nil
}

// printJSON writes the report as indented JSON to stdout.
func printJSON(report *models.AuditReport) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeReportToFile serialises report as indented JSON and writes it to path,
// creating or overwriting the file. It does not affect stdout output.
func writeReportToFile(path string, report *models.AuditReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return nil
}

// printSummary renders a compact summary view to w:
//   - Account / profile / region header
//   - Total findings and total potential monthly savings
//   - Per-severity finding counts
//   - Top 5 findings ranked by savings
//
// It reuses the already-computed AuditReport; no engine logic is duplicated.
func printSummary(w io.Writer, report *models.AuditReport) {
	s := report.Summary

	fmt.Fprintf(w, "Account:  %s\n", report.AccountID)
	fmt.Fprintf(w, "Profile:  %s\n", report.Profile)
	fmt.Fprintf(w, "Regions:  %d\n", len(report.Regions))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Findings:             %d\n", len(s.AllFindings))
	fmt.Fprintf(w, "Potential Monthly Savings:  $%.2f\n", s.TotalPotentialMonthlySavings)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Severity Breakdown")
	counts := severityCounts(s.AllFindings)
	for _, sev := range []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		fmt.Fprintf(w, "  %-10s  %d\n", string(sev), counts[sev])
	}

	// AllFindings is already ranked savings-first; the head is the top-N.
	top := s.AllFindings
	if len(top) > 5 {
		top = top[:5]
	}
	if len(top) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Top Findings by Savings")
	fmt.Fprintf(w, "  %-42s  %-15s  %-10s  %s\n", "RESOURCE ID", "REGION", "SEVERITY", "SAVINGS/MO")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 82))
	for _, f := range top {
		fmt.Fprintf(w, "  %-42s  %-15s  %-10s  $%.2f\n",
			f.ResourceID, f.Region, string(f.Severity), f.PotentialMonthlySavings)
	}
}

func severityCounts(findings []models.Finding) map[models.Severity]int {
	counts := make(map[models.Severity]int, 3)
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}

// printTable renders a human-readable header followed by a findings table
// and the per-kind summary block.
func printTable(report *models.AuditReport) {
	s := report.Summary
	fmt.Printf(
		"Profile: %-20s  Account: %-14s  Regions: %d  Findings: %d  Potential Savings: $%.2f/mo\n",
		report.Profile,
		report.AccountID,
		len(report.Regions),
		len(s.AllFindings),
		s.TotalPotentialMonthlySavings,
	)
	fmt.Println()

	output.RenderTable(os.Stdout, s.AllFindings, output.TableOptions{
		Colored:     true,
		IncludeKind: true,
	})

	fmt.Println()
	output.RenderSummary(os.Stdout, s)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}
