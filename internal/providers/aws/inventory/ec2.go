package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// collectInstances pages through all running EC2 instances in region and
// shapes each as a COMPUTE RawResource with CloudWatch CPU statistics
// (average, peak, and window minimum for the reservation signal) plus the
// provisioned vCPU count.
//
// CloudWatch gaps are non-fatal: an instance without datapoints simply
// lacks the CPU samples, which the core treats as "not measured".
func collectInstances(ctx context.Context, clients *regionClients, region string, w metricWindow) ([]models.RawResource, error) {
	paginator := ec2svc.NewDescribeInstancesPaginator(clients.EC2, &ec2svc.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-state-name"), Values: []string{"running"}},
		},
	})

	var resources []models.RawResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances page: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				resources = append(resources, toInstanceResource(ctx, clients, inst, region, w))
			}
		}
	}
	return resources, nil
}

func toInstanceResource(ctx context.Context, clients *regionClients, inst ec2types.Instance, region string, w metricWindow) models.RawResource {
	id := aws.ToString(inst.InstanceId)

	samples := make(map[string]float64)
	dims := []cwtypes.Dimension{dim("InstanceId", id)}
	if v, ok := fetchStatistic(ctx, clients.CW, "AWS/EC2", "CPUUtilization", dims, cwtypes.StatisticAverage, w); ok {
		samples["cpu_percent_avg"] = v
	}
	if v, ok := fetchStatistic(ctx, clients.CW, "AWS/EC2", "CPUUtilization", dims, cwtypes.StatisticMaximum, w); ok {
		samples["cpu_percent_peak"] = v
	}
	if v, ok := fetchStatistic(ctx, clients.CW, "AWS/EC2", "CPUUtilization", dims, cwtypes.StatisticMinimum, w); ok {
		samples["cpu_percent_sustained"] = v
	}
	if inst.CpuOptions != nil && inst.CpuOptions.CoreCount != nil {
		vcpu := float64(aws.ToInt32(inst.CpuOptions.CoreCount))
		if inst.CpuOptions.ThreadsPerCore != nil {
			vcpu *= float64(aws.ToInt32(inst.CpuOptions.ThreadsPerCore))
		}
		samples["allocated_vcpu"] = vcpu
	}

	pricing := models.PricingOnDemand
	if inst.InstanceLifecycle != "" {
		// Spot and scheduled instances are already discounted capacity.
		pricing = string(inst.InstanceLifecycle)
	}

	return models.RawResource{
		ID:      id,
		Kind:    models.KindCompute,
		Region:  region,
		Samples: samples,
		Labels:  map[string]string{models.LabelPricing: pricing},
	}
}

// collectNATGateways shapes each available NAT gateway as a COMPUTE
// RawResource whose traffic signal is the hourly packet rate. A gateway
// nobody routes through idles at (or near) zero.
func collectNATGateways(ctx context.Context, clients *regionClients, region string, w metricWindow) ([]models.RawResource, error) {
	paginator := ec2svc.NewDescribeNatGatewaysPaginator(clients.EC2, &ec2svc.DescribeNatGatewaysInput{})

	var resources []models.RawResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeNatGateways page: %w", err)
		}
		for _, gw := range page.NatGateways {
			if gw.State != ec2types.NatGatewayStateAvailable {
				continue
			}
			id := aws.ToString(gw.NatGatewayId)
			samples := make(map[string]float64)
			if v, ok := fetchHourlyRate(ctx, clients.CW, "AWS/NATGateway", "PacketsOutToDestination",
				[]cwtypes.Dimension{dim("NatGatewayId", id)}, w); ok {
				samples["requests_per_hour"] = v
			}
			resources = append(resources, models.RawResource{
				ID:      id,
				Kind:    models.KindCompute,
				Region:  region,
				Samples: samples,
			})
		}
	}
	return resources, nil
}

// collectVolumes shapes each EBS volume as a STORAGE RawResource carrying
// its attachment count, size, and hourly I/O rate.
func collectVolumes(ctx context.Context, clients *regionClients, region string, w metricWindow) ([]models.RawResource, error) {
	paginator := ec2svc.NewDescribeVolumesPaginator(clients.EC2, &ec2svc.DescribeVolumesInput{})

	var resources []models.RawResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeVolumes page: %w", err)
		}
		for _, vol := range page.Volumes {
			id := aws.ToString(vol.VolumeId)
			samples := map[string]float64{
				"attachment_count": float64(len(vol.Attachments)),
			}
			if vol.Size != nil {
				samples["allocated_disk_gb"] = float64(aws.ToInt32(vol.Size))
			}
			if v, ok := fetchHourlyRate(ctx, clients.CW, "AWS/EBS", "VolumeReadOps",
				[]cwtypes.Dimension{dim("VolumeId", id)}, w); ok {
				samples["reads_per_hour"] = v
			}
			resources = append(resources, models.RawResource{
				ID:      id,
				Kind:    models.KindStorage,
				Region:  region,
				Samples: samples,
				Labels:  map[string]string{models.LabelStorageClass: string(vol.VolumeType)},
			})
		}
	}
	return resources, nil
}

// collectAddresses shapes each Elastic IP as a STATIC_IP RawResource with
// its association count. DescribeAddresses is not paginated.
func collectAddresses(ctx context.Context, clients *regionClients, region string, _ metricWindow) ([]models.RawResource, error) {
	out, err := clients.EC2.DescribeAddresses(ctx, &ec2svc.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("DescribeAddresses: %w", err)
	}

	var resources []models.RawResource
	for _, addr := range out.Addresses {
		id := aws.ToString(addr.AllocationId)
		if id == "" {
			id = aws.ToString(addr.PublicIp)
		}
		associations := 0.0
		if aws.ToString(addr.AssociationId) != "" {
			associations = 1
		}
		resources = append(resources, models.RawResource{
			ID:      id,
			Kind:    models.KindStaticIP,
			Region:  region,
			Samples: map[string]float64{"association_count": associations},
		})
	}
	return resources, nil
}
