package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/ppiankov/costspectre/internal/pricing"
)

// DefaultSnapshotAgeDays is the age after which a snapshot is considered stale.
const DefaultSnapshotAgeDays = 90

// SnapshotAPI is the minimal interface for snapshot operations.
type SnapshotAPI interface {
	DescribeSnapshots(ctx context.Context, input *ec2.DescribeSnapshotsInput, opts ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
}

// SnapshotScanner detects snapshots older than the configured age.
type SnapshotScanner struct {
	client SnapshotAPI
	prices *pricing.Table
	region string
	now    func() time.Time
}

// NewSnapshotScanner creates a scanner for EBS snapshots.
func NewSnapshotScanner(client SnapshotAPI, prices *pricing.Table, region string) *SnapshotScanner {
	return &SnapshotScanner{client: client, prices: prices, region: region, now: time.Now}
}

// Type returns the resource type.
func (s *SnapshotScanner) Type() ResourceType {
	return ResourceSnapshot
}

// Scan examines all self-owned snapshots and flags those created before the cutoff.
func (s *SnapshotScanner) Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error) {
	snapshots, err := s.listOwnedSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	result := &ScanResult{ResourcesScanned: len(snapshots)}
	if len(snapshots) == 0 {
		return result, nil
	}

	now := s.now().UTC()
	cutoff := now.AddDate(0, 0, -cfg.SnapshotAgeDays)

	for _, snap := range snapshots {
		if snap.StartTime == nil || !snap.StartTime.Before(cutoff) {
			continue
		}

		snapID := deref(snap.SnapshotId)
		if cfg.Exclude.ShouldExclude(snapID, ec2TagsToMap(snap.Tags)) {
			continue
		}

		age := wholeDays(now.Sub(*snap.StartTime))
		sizeGiB := int(derefInt32(snap.VolumeSize))

		result.Findings = append(result.Findings, Finding{
			ID:           FindingStaleSnapshot,
			ResourceType: ResourceSnapshot,
			ResourceID:   snapID,
			ResourceName: snapshotName(snap),
			Region:       s.region,
			Message:      fmt.Sprintf("Snapshot %d days old, %d GiB", age, sizeGiB),
			MonthlyCost:  s.prices.MonthlySnapshotCost(sizeGiB),
			SizeGiB:      sizeGiB,
			AgeDays:      age,
			CreatedOn:    snap.StartTime.UTC().Format(time.DateOnly),
		})
	}

	return result, nil
}

func (s *SnapshotScanner) listOwnedSnapshots(ctx context.Context) ([]ec2types.Snapshot, error) {
	var snapshots []ec2types.Snapshot
	paginator := ec2.NewDescribeSnapshotsPaginator(s.client, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, page.Snapshots...)
	}
	return snapshots, nil
}

func snapshotName(snap ec2types.Snapshot) string {
	if name := nameTag(snap.Tags); name != "" {
		return name
	}
	return deref(snap.Description)
}

// wholeDays truncates a duration to complete days.
func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
