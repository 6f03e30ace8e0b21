package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// collectDBInstances shapes each available RDS instance as a DATABASE
// RawResource: CPU percent statistics and average connection count from
// CloudWatch, allocated storage from the instance description. Reserved
// instances are labelled so reservation analysis can tell pricing models
// apart; everything else runs on demand.
func collectDBInstances(ctx context.Context, clients *regionClients, region string, w metricWindow) ([]models.RawResource, error) {
	paginator := rds.NewDescribeDBInstancesPaginator(clients.RDS, &rds.DescribeDBInstancesInput{})

	var resources []models.RawResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeDBInstances page: %w", err)
		}
		for _, db := range page.DBInstances {
			if aws.ToString(db.DBInstanceStatus) != "available" {
				continue
			}
			id := aws.ToString(db.DBInstanceIdentifier)
			dbDims := []cwtypes.Dimension{dim("DBInstanceIdentifier", id)}

			samples := make(map[string]float64)
			if v, ok := fetchStatistic(ctx, clients.CW, "AWS/RDS", "CPUUtilization", dbDims, cwtypes.StatisticAverage, w); ok {
				samples["cpu_percent_avg"] = v
			}
			if v, ok := fetchStatistic(ctx, clients.CW, "AWS/RDS", "CPUUtilization", dbDims, cwtypes.StatisticMaximum, w); ok {
				samples["cpu_percent_peak"] = v
			}
			if v, ok := fetchStatistic(ctx, clients.CW, "AWS/RDS", "CPUUtilization", dbDims, cwtypes.StatisticMinimum, w); ok {
				samples["cpu_percent_sustained"] = v
			}
			if v, ok := fetchStatistic(ctx, clients.CW, "AWS/RDS", "DatabaseConnections", dbDims, cwtypes.StatisticAverage, w); ok {
				samples["connections_avg"] = v
			}
			if db.AllocatedStorage != nil && aws.ToInt32(db.AllocatedStorage) > 0 {
				samples["allocated_disk_gb"] = float64(aws.ToInt32(db.AllocatedStorage))
			}

			labels := map[string]string{
				"engine": aws.ToString(db.Engine),
			}
			if class := aws.ToString(db.DBInstanceClass); class != "" {
				labels["instance_class"] = class
			}
			// The pricing model is not exposed on the instance itself;
			// reserved coverage would need the ReservedDBInstances API.
			// Label everything on-demand and let policy disable the
			// reservation rule where reservations are already in place.
			labels[models.LabelPricing] = models.PricingOnDemand

			resources = append(resources, models.RawResource{
				ID:      id,
				Kind:    models.KindDatabase,
				Region:  region,
				Samples: samples,
				Labels:  labels,
			})
		}
	}
	return resources, nil
}
