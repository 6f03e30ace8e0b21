package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Narrow client interfaces: each lists only the SDK operations this package
// uses. The real SDK clients satisfy them automatically (and the embedded
// describe methods also satisfy the SDK v2 paginator client interfaces);
// tests replace any field in regionClients with a stub returning canned data.

type inventoryEC2Client interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2svc.DescribeInstancesInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeInstancesOutput, error)

	DescribeVolumes(
		ctx context.Context,
		params *ec2svc.DescribeVolumesInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeVolumesOutput, error)

	DescribeNatGateways(
		ctx context.Context,
		params *ec2svc.DescribeNatGatewaysInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeNatGatewaysOutput, error)

	DescribeAddresses(
		ctx context.Context,
		params *ec2svc.DescribeAddressesInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeAddressesOutput, error)
}

type inventoryELBv2Client interface {
	DescribeLoadBalancers(
		ctx context.Context,
		params *elbv2.DescribeLoadBalancersInput,
		optFns ...func(*elbv2.Options),
	) (*elbv2.DescribeLoadBalancersOutput, error)
}

type inventoryLambdaClient interface {
	ListFunctions(
		ctx context.Context,
		params *lambdasvc.ListFunctionsInput,
		optFns ...func(*lambdasvc.Options),
	) (*lambdasvc.ListFunctionsOutput, error)
}

type inventoryRDSClient interface {
	DescribeDBInstances(
		ctx context.Context,
		params *rds.DescribeDBInstancesInput,
		optFns ...func(*rds.Options),
	) (*rds.DescribeDBInstancesOutput, error)
}

type inventoryS3Client interface {
	ListBuckets(
		ctx context.Context,
		params *s3svc.ListBucketsInput,
		optFns ...func(*s3svc.Options),
	) (*s3svc.ListBucketsOutput, error)
}

type inventoryCWClient interface {
	GetMetricStatistics(
		ctx context.Context,
		params *cloudwatch.GetMetricStatisticsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// regionClients bundles the service clients used to collect one region.
type regionClients struct {
	EC2    inventoryEC2Client
	ELBv2  inventoryELBv2Client
	Lambda inventoryLambdaClient
	RDS    inventoryRDSClient
	S3     inventoryS3Client
	CW     inventoryCWClient
}

// regionClientFactory creates regionClients from a region-scoped aws.Config.
// Swapped for a stub factory in unit tests.
type regionClientFactory func(cfg aws.Config) *regionClients

func newRegionClients(cfg aws.Config) *regionClients {
	return &regionClients{
		EC2:    ec2svc.NewFromConfig(cfg),
		ELBv2:  elbv2.NewFromConfig(cfg),
		Lambda: lambdasvc.NewFromConfig(cfg),
		RDS:    rds.NewFromConfig(cfg),
		S3:     s3svc.NewFromConfig(cfg),
		CW:     cloudwatch.NewFromConfig(cfg),
	}
}
