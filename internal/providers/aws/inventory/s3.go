package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// collectBuckets shapes every bucket in the account as a STORAGE
// RawResource. ListBuckets is account-global so this runs once against the
// profile's home region. Request volume comes from the per-bucket
// CloudWatch request metrics, which only exist when the bucket has a
// request-metrics filter configured; buckets without one carry no access
// sample. The storage class label reflects the bucket's default tier.
func collectBuckets(ctx context.Context, clients *regionClients, region string, w metricWindow) ([]models.RawResource, error) {
	out, err := clients.S3.ListBuckets(ctx, &s3svc.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("ListBuckets: %w", err)
	}

	resources := make([]models.RawResource, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		bucketDims := []cwtypes.Dimension{
			dim("BucketName", name),
			dim("FilterId", "EntireBucket"),
		}

		samples := make(map[string]float64)
		if v, ok := fetchHourlyRate(ctx, clients.CW, "AWS/S3", "GetRequests", bucketDims, w); ok {
			samples["reads_per_hour"] = v
		}

		resources = append(resources, models.RawResource{
			ID:      name,
			Kind:    models.KindStorage,
			Region:  region,
			Samples: samples,
			Labels: map[string]string{
				models.LabelStorageClass: "standard",
			},
		})
	}
	return resources, nil
}
