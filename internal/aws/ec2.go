package aws

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/ppiankov/costspectre/internal/pricing"
)

// Idle detection defaults.
const (
	DefaultIdleDays         = 7
	DefaultIdleCPUThreshold = 5.0
)

// EC2API is the minimal interface for EC2 instance operations.
type EC2API interface {
	DescribeInstances(ctx context.Context, input *ec2.DescribeInstancesInput, opts ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// EC2Scanner detects running instances with low average CPU utilization.
type EC2Scanner struct {
	client  EC2API
	metrics *MetricsFetcher
	prices  *pricing.Table
	region  string
}

// NewEC2Scanner creates a scanner for EC2 instances.
func NewEC2Scanner(client EC2API, metrics *MetricsFetcher, prices *pricing.Table, region string) *EC2Scanner {
	return &EC2Scanner{client: client, metrics: metrics, prices: prices, region: region}
}

// Type returns the resource type this scanner handles.
func (s *EC2Scanner) Type() ResourceType {
	return ResourceEC2
}

// Scan examines running instances and flags those whose mean daily CPU average
// is below the threshold. Instances without datapoints are skipped.
func (s *EC2Scanner) Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	instances, err := s.listRunningInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list EC2 instances: %w", err)
	}

	result := &ScanResult{ResourcesScanned: len(instances)}
	if len(instances) == 0 {
		return result, nil
	}

	idleDays := cfg.IdleDays
	if idleDays <= 0 {
		idleDays = DefaultIdleDays
	}
	threshold := cfg.IdleCPUThreshold

	var ids []string
	byID := make(map[string]ec2types.Instance, len(instances))
	for _, inst := range instances {
		id := deref(inst.InstanceId)
		if id == "" || cfg.Exclude.ShouldExclude(id, ec2TagsToMap(inst.Tags)) {
			continue
		}
		ids = append(ids, id)
		byID[id] = inst
	}

	cpu, err := s.metrics.FetchDailyAverage(ctx, "AWS/EC2", "CPUUtilization", "InstanceId", ids, idleDays)
	if err != nil {
		return nil, fmt.Errorf("fetch EC2 CPU metrics: %w", err)
	}

	for _, id := range ids {
		avgCPU, ok := cpu[id]
		if !ok {
			slog.Debug("No CPU datapoints, skipping instance", "instance", id, "region", s.region)
			continue
		}
		if avgCPU >= threshold {
			continue
		}

		inst := byID[id]
		instanceType := string(inst.InstanceType)
		cost, known := s.prices.MonthlyEC2Cost(instanceType)
		if !known {
			slog.Debug("Instance type not in price table, using fallback estimate", "instance_type", instanceType, "cost", cost)
		}

		result.Findings = append(result.Findings, Finding{
			ID:            FindingIdleEC2,
			ResourceType:  ResourceEC2,
			ResourceID:    id,
			ResourceName:  nameTag(inst.Tags),
			Region:        s.region,
			Message:       fmt.Sprintf("CPU %.1f%% over %d days", avgCPU, idleDays),
			MonthlyCost:   cost,
			InstanceType:  instanceType,
			AvgCPUPercent: math.Round(avgCPU*100) / 100,
		})
	}

	return result, nil
}

func (s *EC2Scanner) listRunningInstances(ctx context.Context) ([]ec2types.Instance, error) {
	var instances []ec2types.Instance
	paginator := ec2.NewDescribeInstancesPaginator(s.client, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   awssdk.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, res := range page.Reservations {
			for _, inst := range res.Instances {
				if inst.State != nil && inst.State.Name != ec2types.InstanceStateNameRunning {
					continue
				}
				instances = append(instances, inst)
			}
		}
	}
	return instances, nil
}
