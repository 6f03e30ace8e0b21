package billing

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
)

// billingCEClient lists only the Cost Explorer operations this package uses.
// The real *costexplorer.Client satisfies it automatically; tests swap in a
// stub returning canned responses.
type billingCEClient interface {
	GetCostAndUsage(
		ctx context.Context,
		params *ce.GetCostAndUsageInput,
		optFns ...func(*ce.Options),
	) (*ce.GetCostAndUsageOutput, error)

	GetCostAndUsageWithResources(
		ctx context.Context,
		params *ce.GetCostAndUsageWithResourcesInput,
		optFns ...func(*ce.Options),
	) (*ce.GetCostAndUsageWithResourcesOutput, error)
}

// billingClientFactory creates the Cost Explorer client from an aws.Config.
// Swapped for a stub factory in unit tests.
type billingClientFactory func(cfg aws.Config) billingCEClient

func newBillingClient(cfg aws.Config) billingCEClient {
	return ce.NewFromConfig(cfg)
}
