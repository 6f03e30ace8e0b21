package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// collectLoadBalancers shapes each active load balancer as a COMPUTE
// RawResource whose traffic signal is the hourly request count. Network
// load balancers have no RequestCount metric; they carry no traffic sample
// and the idle rule skips them.
func collectLoadBalancers(ctx context.Context, clients *regionClients, region string, w metricWindow) ([]models.RawResource, error) {
	paginator := elbv2.NewDescribeLoadBalancersPaginator(clients.ELBv2, &elbv2.DescribeLoadBalancersInput{})

	var resources []models.RawResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeLoadBalancers page: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			if lb.State != nil && lb.State.Code != elbv2types.LoadBalancerStateEnumActive {
				continue
			}
			arn := aws.ToString(lb.LoadBalancerArn)
			samples := make(map[string]float64)
			if lb.Type == elbv2types.LoadBalancerTypeEnumApplication {
				if v, ok := fetchHourlyRate(ctx, clients.CW, "AWS/ApplicationELB", "RequestCount",
					[]cwtypes.Dimension{dim("LoadBalancer", metricDimensionFromARN(arn))}, w); ok {
					samples["requests_per_hour"] = v
				}
			}
			resources = append(resources, models.RawResource{
				ID:      arn,
				Kind:    models.KindCompute,
				Region:  region,
				Samples: samples,
			})
		}
	}
	return resources, nil
}

// metricDimensionFromARN extracts the CloudWatch LoadBalancer dimension
// value from a load balancer ARN: everything after "loadbalancer/"
// (e.g. "app/my-alb/50dc6c495c0c9188").
func metricDimensionFromARN(arn string) string {
	const marker = "loadbalancer/"
	if i := strings.Index(arn, marker); i >= 0 {
		return arn[i+len(marker):]
	}
	return arn
}
