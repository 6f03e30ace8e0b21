package billing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

type stubCEClient struct {
	// usageOutputs are returned by GetCostAndUsage in order.
	usageOutputs []*ce.GetCostAndUsageOutput
	usageCalls   int
	usageErr     error

	// resourceOutputs are returned by GetCostAndUsageWithResources in order,
	// one per call across all service filters and pages.
	resourceOutputs []*ce.GetCostAndUsageWithResourcesOutput
	resourceCalls   int
	resourceInputs  []*ce.GetCostAndUsageWithResourcesInput
	resourceErr     error
}

func (s *stubCEClient) GetCostAndUsage(_ context.Context, _ *ce.GetCostAndUsageInput, _ ...func(*ce.Options)) (*ce.GetCostAndUsageOutput, error) {
	if s.usageErr != nil {
		return nil, s.usageErr
	}
	out := s.usageOutputs[s.usageCalls%len(s.usageOutputs)]
	s.usageCalls++
	return out, nil
}

func (s *stubCEClient) GetCostAndUsageWithResources(_ context.Context, params *ce.GetCostAndUsageWithResourcesInput, _ ...func(*ce.Options)) (*ce.GetCostAndUsageWithResourcesOutput, error) {
	if s.resourceErr != nil {
		return nil, s.resourceErr
	}
	s.resourceInputs = append(s.resourceInputs, params)
	out := s.resourceOutputs[s.resourceCalls%len(s.resourceOutputs)]
	s.resourceCalls++
	return out, nil
}

func stubFactory(client billingCEClient) billingClientFactory {
	return func(aws.Config) billingCEClient { return client }
}

func resourceGroup(id, amount string) cetypes.Group {
	return cetypes.Group{
		Keys: []string{id},
		Metrics: map[string]cetypes.MetricValue{
			"UnblendedCost": {Amount: aws.String(amount)},
		},
	}
}

func TestCollectCostByResource_ScalesToMonthly(t *testing.T) {
	stub := &stubCEClient{
		resourceOutputs: []*ce.GetCostAndUsageWithResourcesOutput{
			{
				ResultsByTime: []cetypes.ResultByTime{
					{Groups: []cetypes.Group{resourceGroup("i-0abc", "10.0")}},
				},
			},
			{ResultsByTime: nil},
			{ResultsByTime: nil},
			{ResultsByTime: nil},
			{ResultsByTime: nil},
		},
	}
	collector := NewDefaultCollectorWithFactory(stubFactory(stub))

	costs, err := collector.CollectCostByResource(context.Background(), aws.Config{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10 observed over a 10-day window scales by 30/10.
	if got := costs["i-0abc"]; math.Abs(got-30.0) > 1e-9 {
		t.Errorf("expected scaled cost 30.0, got %v", got)
	}
	// One call per audited service.
	if stub.resourceCalls != len(auditedServices) {
		t.Errorf("expected %d service queries, got %d", len(auditedServices), stub.resourceCalls)
	}
}

func TestCollectCostByResource_WindowCappedAtFourteenDays(t *testing.T) {
	stub := &stubCEClient{
		resourceOutputs: []*ce.GetCostAndUsageWithResourcesOutput{
			{
				ResultsByTime: []cetypes.ResultByTime{
					{Groups: []cetypes.Group{resourceGroup("i-0abc", "14.0")}},
				},
			},
			{}, {}, {}, {},
		},
	}
	collector := NewDefaultCollectorWithFactory(stubFactory(stub))

	costs, err := collector.CollectCostByResource(context.Background(), aws.Config{}, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The 90-day request is clamped to 14; 14 observed scales by 30/14.
	if got := costs["i-0abc"]; math.Abs(got-30.0) > 1e-9 {
		t.Errorf("expected scaled cost 30.0 from capped window, got %v", got)
	}
	start, end := *stub.resourceInputs[0].TimePeriod.Start, *stub.resourceInputs[0].TimePeriod.End
	if start >= end {
		t.Errorf("expected start %s before end %s", start, end)
	}
}

func TestCollectCostByResource_SumsAcrossDaysAndFollowsPagination(t *testing.T) {
	stub := &stubCEClient{
		resourceOutputs: []*ce.GetCostAndUsageWithResourcesOutput{
			{
				ResultsByTime: []cetypes.ResultByTime{
					{Groups: []cetypes.Group{resourceGroup("i-0abc", "2.0")}},
					{Groups: []cetypes.Group{resourceGroup("i-0abc", "3.0")}},
				},
				NextPageToken: aws.String("page-2"),
			},
			{
				ResultsByTime: []cetypes.ResultByTime{
					{Groups: []cetypes.Group{resourceGroup("i-0abc", "5.0")}},
				},
			},
			{}, {}, {}, {},
		},
	}
	collector := NewDefaultCollectorWithFactory(stubFactory(stub))

	costs, err := collector.CollectCostByResource(context.Background(), aws.Config{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (2+3+5) observed over 10 days scales to 30/mo.
	if got := costs["i-0abc"]; math.Abs(got-30.0) > 1e-9 {
		t.Errorf("expected 30.0 across pages, got %v", got)
	}
	if stub.resourceCalls != len(auditedServices)+1 {
		t.Errorf("expected %d calls including the extra page, got %d", len(auditedServices)+1, stub.resourceCalls)
	}
}

func TestCollectCostByResource_ErrorPropagates(t *testing.T) {
	stub := &stubCEClient{resourceErr: errors.New("access denied")}
	collector := NewDefaultCollectorWithFactory(stubFactory(stub))

	if _, err := collector.CollectCostByResource(context.Background(), aws.Config{}, 10); err == nil {
		t.Fatal("expected error from Cost Explorer failure")
	}
}

func TestCollectCostSummary_BreakdownSortedDescending(t *testing.T) {
	stub := &stubCEClient{
		usageOutputs: []*ce.GetCostAndUsageOutput{
			{
				ResultsByTime: []cetypes.ResultByTime{
					{
						Groups: []cetypes.Group{
							resourceGroup("AWS Lambda", "12.50"),
							resourceGroup("Amazon Elastic Compute Cloud - Compute", "240.00"),
							resourceGroup("Amazon Simple Storage Service", "0"),
						},
					},
				},
			},
		},
	}
	collector := NewDefaultCollectorWithFactory(stubFactory(stub))

	summary, err := collector.CollectCostSummary(context.Background(), aws.Config{}, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(summary.TotalCostUSD-252.50) > 1e-9 {
		t.Errorf("expected total 252.50, got %v", summary.TotalCostUSD)
	}
	// Zero-cost services are dropped; remainder sorts by cost descending.
	if len(summary.ServiceBreakdown) != 2 {
		t.Fatalf("expected 2 services in breakdown, got %d", len(summary.ServiceBreakdown))
	}
	if summary.ServiceBreakdown[0].Service != "Amazon Elastic Compute Cloud - Compute" {
		t.Errorf("expected EC2 first, got %q", summary.ServiceBreakdown[0].Service)
	}
	if summary.PeriodStart == "" || summary.PeriodEnd == "" {
		t.Error("expected period boundaries to be set")
	}
}

func TestCollectCostSummary_ErrorPropagates(t *testing.T) {
	stub := &stubCEClient{usageErr: errors.New("throttled")}
	collector := NewDefaultCollectorWithFactory(stubFactory(stub))

	if _, err := collector.CollectCostSummary(context.Background(), aws.Config{}, 30); err == nil {
		t.Fatal("expected error from Cost Explorer failure")
	}
}
