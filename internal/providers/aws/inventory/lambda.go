package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// collectFunctions shapes each Lambda function as a SERVERLESS RawResource.
// Invocation volume and cold-start counts come from CloudWatch as hourly
// rates; memory utilization comes from the Lambda Insights metric when the
// extension is installed on the function, and is absent otherwise.
func collectFunctions(ctx context.Context, clients *regionClients, region string, w metricWindow) ([]models.RawResource, error) {
	paginator := lambdasvc.NewListFunctionsPaginator(clients.Lambda, &lambdasvc.ListFunctionsInput{})

	var resources []models.RawResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListFunctions page: %w", err)
		}
		for _, fn := range page.Functions {
			name := aws.ToString(fn.FunctionName)
			fnDims := []cwtypes.Dimension{dim("FunctionName", name)}

			samples := make(map[string]float64)
			if v, ok := fetchHourlyRate(ctx, clients.CW, "AWS/Lambda", "Invocations", fnDims, w); ok {
				samples["invocations_per_hour"] = v
			}
			if v, ok := fetchStatistic(ctx, clients.CW, "LambdaInsights", "init_duration", fnDims, cwtypes.StatisticSampleCount, w); ok && v > 0 {
				samples["cold_starts_per_hour"] = v / w.hours()
			}
			if v, ok := fetchStatistic(ctx, clients.CW, "LambdaInsights", "memory_utilization", fnDims, cwtypes.StatisticAverage, w); ok {
				samples["memory_percent_avg"] = v
			}
			if fn.MemorySize != nil {
				samples["allocated_memory_mb"] = float64(aws.ToInt32(fn.MemorySize))
			}

			resources = append(resources, models.RawResource{
				ID:      aws.ToString(fn.FunctionArn),
				Kind:    models.KindServerless,
				Region:  region,
				Samples: samples,
			})
		}
	}
	return resources, nil
}
