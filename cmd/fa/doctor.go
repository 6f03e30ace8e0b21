package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/audit"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/providers/aws/common"
)

// DoctorResult is the structured output of fa doctor. It can be serialised
// to JSON via --format=json or rendered as a human-readable table (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Policy struct {
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	Rulepacks struct {
		OK      bool   `json:"ok"`
		RuleIDs int    `json:"rule_ids"`
		Error   string `json:"error,omitempty"`
	} `json:"rulepacks"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")
			result, err := runDoctor(
				cmd.Context(),
				common.NewDefaultClientProvider(),
				cmd.OutOrStdout(),
				format,
				profile,
			)
			if err != nil {
				// Rendering failure — let Cobra/main handle it.
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main.go's
				// fmt.Fprintln(os.Stderr, err) path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("profile", "", "AWS profile to use (default: credential chain)")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures (e.g. JSON encode error).
// Callers must inspect result.OverallHealthy to determine whether the
// environment is healthy; runDoctor itself never returns an error for an
// unhealthy result so that no error text leaks to callers (such as main).
func runDoctor(ctx context.Context, provider common.ClientProvider, w io.Writer, format, profile string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, provider, profile)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
// It performs no rendering; callers decide how to present the result.
func collectDoctorResult(ctx context.Context, provider common.ClientProvider, profile string) DoctorResult {
	var result DoctorResult

	// AWS: credentials → STS account ID → region discovery.
	// An empty profile string selects the default credential chain.
	if profile != "" {
		result.AWS.Profile = profile
	}
	profileCfg, err := provider.LoadProfile(ctx, profile)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
		_, err = provider.GetActiveRegions(ctx, profileCfg)
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.RegionsOK = true
		}
	}

	// Policy: stat → load → validate (file is optional).
	_, statErr := os.Stat("./fa.yaml")
	if statErr == nil {
		result.Policy.Present = true
		cfg, loadErr := policy.LoadPolicy("./fa.yaml")
		if loadErr != nil {
			result.Policy.Errors = []string{loadErr.Error()}
		} else if validErr := policy.Validate(cfg); validErr != nil {
			var cfgErr *policy.ConfigurationError
			if errors.As(validErr, &cfgErr) {
				result.Policy.Errors = cfgErr.Problems
			} else {
				result.Policy.Errors = []string{validErr.Error()}
			}
		} else {
			result.Policy.Valid = true
		}
	} else if !os.IsNotExist(statErr) {
		// Stat error other than "not found" — treat as present but unreadable.
		result.Policy.Present = true
		result.Policy.Errors = []string{statErr.Error()}
	}

	// Rulepacks: assembling the default registry panics on a duplicate or
	// malformed rule ID; contain it as a diagnostic instead of a crash.
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				result.Rulepacks.Error = fmt.Sprint(rec)
			}
		}()
		reg := audit.DefaultRegistry()
		result.Rulepacks.RuleIDs = len(reg.RuleIDs())
		result.Rulepacks.OK = true
	}()

	result.OverallHealthy = result.AWS.Credentials &&
		result.AWS.RegionsOK &&
		result.Rulepacks.OK &&
		(!result.Policy.Present || result.Policy.Valid)

	return result
}


// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		doctorPrint(w, "Regions API", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		if result.AWS.RegionsOK {
			doctorPrint(w, "Regions API", "OK", "")
		} else {
			doctorPrint(w, "Regions API", "FAIL", result.AWS.Error)
		}
	}

	fmt.Fprintln(w, "\nPolicy:")
	if !result.Policy.Present {
		doctorPrint(w, "fa.yaml present", "Not found (optional)", "")
	} else {
		doctorPrint(w, "fa.yaml present", "YES", "")
		if result.Policy.Valid {
			doctorPrint(w, "Policy valid", "OK", "")
		} else {
			for _, e := range result.Policy.Errors {
				doctorPrint(w, "Policy valid", "FAIL", e)
			}
		}
	}

	fmt.Fprintln(w, "\nRulepacks:")
	if result.Rulepacks.OK {
		doctorPrint(w, "Registry", "OK", fmt.Sprintf("%d rules", result.Rulepacks.RuleIDs))
	} else {
		doctorPrint(w, "Registry", "FAIL", result.Rulepacks.Error)
	}
}

// doctorPrint writes one aligned diagnostic line.
func doctorPrint(w io.Writer, check, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %-18s %-22s %s\n", check, status, detail)
		return
	}
	fmt.Fprintf(w, "  %-18s %s\n", check, status)
}
