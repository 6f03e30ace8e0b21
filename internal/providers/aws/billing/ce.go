package billing

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// Cost Explorer is a global service; all calls go through us-east-1.
const ceRegion = "us-east-1"

// GetCostAndUsageWithResources accepts at most a 14-day lookback.
const maxResourceCostDays = 14

// Services whose per-resource costs feed the audit. The RESOURCE_ID
// dimension is only populated for these when resource-level data is enabled
// on the account.
var auditedServices = []string{
	"Amazon Elastic Compute Cloud - Compute",
	"AWS Lambda",
	"Amazon Relational Database Service",
	"Amazon Simple Storage Service",
	"Amazon Elastic Load Balancing",
}

// Collector gathers billing data from Cost Explorer. It supplies the cost
// side of the audit: per-resource attributed monthly cost and the
// account-level service breakdown. Both calls are non-fatal to the audit;
// missing cost data leaves resources cost-unknown.
type Collector interface {
	// CollectCostByResource returns resourceID → attributed monthly cost in
	// USD. The Cost Explorer window is capped at 14 days and the observed
	// spend is scaled to a 30-day month.
	CollectCostByResource(ctx context.Context, cfg aws.Config, daysBack int) (map[string]float64, error)

	// CollectCostSummary returns the account-level cost summary for the last
	// daysBack days, broken down by service.
	CollectCostSummary(ctx context.Context, cfg aws.Config, daysBack int) (*models.CostSummary, error)
}

// DefaultCollector is the production Collector backed by the real SDK.
type DefaultCollector struct {
	factory billingClientFactory
}

func NewDefaultCollector() *DefaultCollector {
	return &DefaultCollector{factory: newBillingClient}
}

// NewDefaultCollectorWithFactory returns a collector using f to build its
// Cost Explorer client. Pass a stub factory in tests.
func NewDefaultCollectorWithFactory(f billingClientFactory) *DefaultCollector {
	return &DefaultCollector{factory: f}
}

// CollectCostByResource implements Collector.
func (d *DefaultCollector) CollectCostByResource(ctx context.Context, cfg aws.Config, daysBack int) (map[string]float64, error) {
	days := effectiveDaysBack(daysBack)
	if days > maxResourceCostDays {
		days = maxResourceCostDays
	}
	start, end := billingDateRange(days)

	client := d.factory(cfg)
	costs := make(map[string]float64)

	for _, service := range auditedServices {
		var nextToken *string
		for {
			out, err := client.GetCostAndUsageWithResources(ctx, &ce.GetCostAndUsageWithResourcesInput{
				TimePeriod: &cetypes.DateInterval{
					Start: aws.String(start),
					End:   aws.String(end),
				},
				Granularity: cetypes.GranularityDaily,
				Metrics:     []string{"UnblendedCost"},
				Filter: &cetypes.Expression{
					Dimensions: &cetypes.DimensionValues{
						Key:    cetypes.DimensionService,
						Values: []string{service},
					},
				},
				GroupBy: []cetypes.GroupDefinition{
					{
						Key:  aws.String("RESOURCE_ID"),
						Type: cetypes.GroupDefinitionTypeDimension,
					},
				},
				NextPageToken: nextToken,
			})
			if err != nil {
				return costs, fmt.Errorf("GetCostAndUsageWithResources (%s): %w", service, err)
			}

			for _, result := range out.ResultsByTime {
				for _, group := range result.Groups {
					if len(group.Keys) == 0 {
						continue
					}
					metric, ok := group.Metrics["UnblendedCost"]
					if !ok {
						continue
					}
					costs[group.Keys[0]] += parseCostFloat(metric.Amount)
				}
			}

			if out.NextPageToken == nil {
				break
			}
			nextToken = out.NextPageToken
		}
	}

	// Scale the observed window to a 30-day month.
	scale := 30.0 / float64(days)
	for id, v := range costs {
		costs[id] = v * scale
	}
	return costs, nil
}

// CollectCostSummary implements Collector. Costs are summed across all
// returned time periods so the summary covers the full requested window;
// services are sorted descending by cost.
func (d *DefaultCollector) CollectCostSummary(ctx context.Context, cfg aws.Config, daysBack int) (*models.CostSummary, error) {
	days := effectiveDaysBack(daysBack)
	start, end := billingDateRange(days)

	client := d.factory(cfg)
	serviceTotals := make(map[string]float64)

	var nextToken *string
	for {
		out, err := client.GetCostAndUsage(ctx, &ce.GetCostAndUsageInput{
			TimePeriod: &cetypes.DateInterval{
				Start: aws.String(start),
				End:   aws.String(end),
			},
			Granularity: cetypes.GranularityMonthly,
			Metrics:     []string{"UnblendedCost"},
			GroupBy: []cetypes.GroupDefinition{
				{
					Key:  aws.String("SERVICE"),
					Type: cetypes.GroupDefinitionTypeDimension,
				},
			},
			NextPageToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("GetCostAndUsage: %w", err)
		}

		for _, result := range out.ResultsByTime {
			for _, group := range result.Groups {
				if len(group.Keys) == 0 {
					continue
				}
				metric, ok := group.Metrics["UnblendedCost"]
				if !ok {
					continue
				}
				serviceTotals[group.Keys[0]] += parseCostFloat(metric.Amount)
			}
		}

		if out.NextPageToken == nil {
			break
		}
		nextToken = out.NextPageToken
	}

	var totalCost float64
	for _, v := range serviceTotals {
		totalCost += v
	}

	breakdown := make([]models.ServiceCost, 0, len(serviceTotals))
	for service, cost := range serviceTotals {
		if cost > 0 {
			breakdown = append(breakdown, models.ServiceCost{
				Service: service,
				CostUSD: cost,
			})
		}
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].CostUSD > breakdown[j].CostUSD
	})

	return &models.CostSummary{
		PeriodStart:      start,
		PeriodEnd:        end,
		TotalCostUSD:     totalCost,
		ServiceBreakdown: breakdown,
	}, nil
}

func effectiveDaysBack(daysBack int) int {
	if daysBack > 0 {
		return daysBack
	}
	return 30
}

// billingDateRange returns start and end dates for a Cost Explorer query.
// end is today (UTC); start is daysBack days ago. Format: "2006-01-02".
func billingDateRange(daysBack int) (start, end string) {
	now := time.Now().UTC()
	end = now.Format("2006-01-02")
	start = now.AddDate(0, 0, -daysBack).Format("2006-01-02")
	return
}

// parseCostFloat parses a cost string returned by the Cost Explorer API
// into a float64. Nil or unparsable values yield 0.
func parseCostFloat(s *string) float64 {
	if s == nil {
		return 0
	}
	v, _ := strconv.ParseFloat(*s, 64)
	return v
}
