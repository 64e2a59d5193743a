package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/ppiankov/costspectre/internal/pricing"
)

// EBSAPI is the minimal interface for EBS volume operations.
type EBSAPI interface {
	DescribeVolumes(ctx context.Context, input *ec2.DescribeVolumesInput, opts ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
}

// EBSScanner detects volumes that are not attached to any instance.
type EBSScanner struct {
	client EBSAPI
	prices *pricing.Table
	region string
}

// NewEBSScanner creates a scanner for EBS volumes.
func NewEBSScanner(client EBSAPI, prices *pricing.Table, region string) *EBSScanner {
	return &EBSScanner{client: client, prices: prices, region: region}
}

// Type returns the resource type.
func (s *EBSScanner) Type() ResourceType {
	return ResourceEBS
}

// Scan lists every volume in the region and flags those in the "available" state.
func (s *EBSScanner) Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	volumes, err := s.listVolumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list EBS volumes: %w", err)
	}

	result := &ScanResult{ResourcesScanned: len(volumes)}

	for _, vol := range volumes {
		if vol.State != ec2types.VolumeStateAvailable {
			continue
		}

		volID := deref(vol.VolumeId)
		if cfg.Exclude.ShouldExclude(volID, ec2TagsToMap(vol.Tags)) {
			continue
		}

		volumeType := string(vol.VolumeType)
		sizeGiB := int(derefInt32(vol.Size))

		var createdOn string
		if vol.CreateTime != nil {
			createdOn = vol.CreateTime.UTC().Format(time.DateOnly)
		}

		result.Findings = append(result.Findings, Finding{
			ID:           FindingUnattachedEBS,
			ResourceType: ResourceEBS,
			ResourceID:   volID,
			ResourceName: nameTag(vol.Tags),
			Region:       s.region,
			Message:      fmt.Sprintf("Unattached %s volume, %d GiB", volumeType, sizeGiB),
			MonthlyCost:  s.prices.MonthlyEBSCost(sizeGiB),
			SizeGiB:      sizeGiB,
			VolumeType:   volumeType,
			CreatedOn:    createdOn,
		})
	}

	return result, nil
}

func (s *EBSScanner) listVolumes(ctx context.Context) ([]ec2types.Volume, error) {
	var volumes []ec2types.Volume
	paginator := ec2.NewDescribeVolumesPaginator(s.client, &ec2.DescribeVolumesInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		volumes = append(volumes, page.Volumes...)
	}
	return volumes, nil
}
