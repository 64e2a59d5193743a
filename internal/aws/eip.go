package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/ppiankov/costspectre/internal/pricing"
)

// EIPAPI is the minimal interface for Elastic IP operations.
type EIPAPI interface {
	DescribeAddresses(ctx context.Context, input *ec2.DescribeAddressesInput, opts ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
}

// EIPScanner detects allocated Elastic IPs with no instance association.
type EIPScanner struct {
	client EIPAPI
	prices *pricing.Table
	region string
}

// NewEIPScanner creates a scanner for Elastic IPs.
func NewEIPScanner(client EIPAPI, prices *pricing.Table, region string) *EIPScanner {
	return &EIPScanner{client: client, prices: prices, region: region}
}

// Type returns the resource type.
func (s *EIPScanner) Type() ResourceType {
	return ResourceEIP
}

// Scan examines all Elastic IPs in the region for addresses not bound to an instance.
func (s *EIPScanner) Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	out, err := s.client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("describe addresses: %w", err)
	}

	result := &ScanResult{ResourcesScanned: len(out.Addresses)}

	for _, addr := range out.Addresses {
		// Addresses held by a network interface alone (NAT gateways, ENIs)
		// still count as unused.
		if addr.InstanceId != nil {
			continue
		}

		allocID := deref(addr.AllocationId)
		publicIP := deref(addr.PublicIp)
		if allocID == "" {
			allocID = publicIP
		}
		if cfg.Exclude.ShouldExclude(allocID, ec2TagsToMap(addr.Tags)) {
			continue
		}

		result.Findings = append(result.Findings, Finding{
			ID:           FindingUnusedEIP,
			ResourceType: ResourceEIP,
			ResourceID:   allocID,
			ResourceName: nameTag(addr.Tags),
			Region:       s.region,
			Message:      fmt.Sprintf("Elastic IP %s not associated with any instance", publicIP),
			MonthlyCost:  s.prices.MonthlyEIPCost(),
			PublicIP:     publicIP,
		})
	}

	return result, nil
}
