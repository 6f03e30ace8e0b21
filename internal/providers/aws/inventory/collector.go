package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/providers/aws/common"
)

// Collector gathers raw resources and their utilization samples from AWS
// and shapes them as kind-bucketed RawResource lists for the audit core.
// It must not classify, compute savings, or apply any audit rule: its sole
// contract is faithful measurement with honest gaps (samples that could not
// be measured are absent, never zero).
//
// All implementations must use the AWS SDK v2 only.
type Collector interface {
	// CollectAll coordinates per-region collection across every service and
	// returns all discovered resources bucketed by kind. Regions and
	// services that fail are skipped with a warning; a partial inventory is
	// expected output, not an error.
	CollectAll(
		ctx context.Context,
		profile *common.ProfileConfig,
		provider common.ClientProvider,
		regions []string,
		daysBack int,
	) (map[models.ResourceKind][]models.RawResource, error)
}

// DefaultCollector is the production Collector backed by the real SDK.
type DefaultCollector struct {
	factory regionClientFactory
}

// NewDefaultCollector returns a collector that constructs real SDK clients
// per region.
func NewDefaultCollector() *DefaultCollector {
	return &DefaultCollector{factory: newRegionClients}
}

// NewDefaultCollectorWithFactory returns a collector using f to build its
// per-region clients. Pass a stub factory in tests.
func NewDefaultCollectorWithFactory(f regionClientFactory) *DefaultCollector {
	return &DefaultCollector{factory: f}
}

// collectFn gathers one service's resources within a region.
type collectFn struct {
	service string
	run     func(ctx context.Context, clients *regionClients, region string, w metricWindow) ([]models.RawResource, error)
}

// regionCollectors lists every per-region collection step in a fixed order
// so inventory output is deterministic for a fixed account state.
var regionCollectors = []collectFn{
	{"ec2-instances", collectInstances},
	{"nat-gateways", collectNATGateways},
	{"load-balancers", collectLoadBalancers},
	{"lambda-functions", collectFunctions},
	{"rds-instances", collectDBInstances},
	{"ebs-volumes", collectVolumes},
	{"elastic-ips", collectAddresses},
}

// CollectAll implements Collector. S3 buckets are collected once against the
// profile's home region (ListBuckets is account-global); everything else is
// collected per region. Failures degrade per service per region.
func (c *DefaultCollector) CollectAll(
	ctx context.Context,
	profile *common.ProfileConfig,
	provider common.ClientProvider,
	regions []string,
	daysBack int,
) (map[models.ResourceKind][]models.RawResource, error) {
	w := newMetricWindow(daysBack)
	out := make(map[models.ResourceKind][]models.RawResource)

	for _, region := range regions {
		clients := c.factory(provider.ConfigForRegion(profile, region))
		for _, step := range regionCollectors {
			resources, err := step.run(ctx, clients, region, w)
			if err != nil {
				zerolog.Ctx(ctx).Warn().
					Str("region", region).
					Str("service", step.service).
					Err(err).
					Msg("inventory collection failed; continuing without this service")
				continue
			}
			for _, r := range resources {
				out[r.Kind] = append(out[r.Kind], r)
			}
		}
	}

	homeClients := c.factory(provider.ConfigForRegion(profile, profile.Region))
	buckets, err := collectBuckets(ctx, homeClients, profile.Region, w)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Msg("inventory collection failed for s3-buckets; continuing without them")
	} else {
		for _, r := range buckets {
			out[r.Kind] = append(out[r.Kind], r)
		}
	}

	return out, nil
}
