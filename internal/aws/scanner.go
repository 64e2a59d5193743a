package aws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/costspectre/internal/pricing"
)

// ResourceScanner is the interface each resource-type scanner implements.
type ResourceScanner interface {
	Scan(ctx context.Context, cfg ScanConfig) (*ScanResult, error)
	Type() ResourceType
}

// ScanProgress reports scanning progress to callers.
type ScanProgress struct {
	Region    string
	Scanner   ResourceType
	Findings  int
	Timestamp time.Time
}

// Scanner runs resource scanners one after another for a single region.
// The first scanner error aborts the run.
type Scanner struct {
	scanners   []ResourceScanner
	region     string
	scanConfig ScanConfig
	progressFn func(ScanProgress)
}

// ScannerOptions selects optional scanners.
type ScannerOptions struct {
	CheckUnusedAddresses bool
}

// NewScanner builds the scanners for the client's region.
func NewScanner(client *Client, prices *pricing.Table, scanCfg ScanConfig, opts ScannerOptions) *Scanner {
	ec2Client := client.EC2()
	metrics := NewMetricsFetcher(client.CloudWatch())
	region := client.Region()

	scanners := []ResourceScanner{
		NewEBSScanner(ec2Client, prices, region),
		NewSnapshotScanner(ec2Client, prices, region),
		NewEC2Scanner(ec2Client, metrics, prices, region),
	}
	if opts.CheckUnusedAddresses {
		scanners = append(scanners, NewEIPScanner(ec2Client, prices, region))
	}
	return NewScannerWith(region, scanCfg, scanners...)
}

// NewScannerWith creates a scanner over an explicit list of resource scanners.
func NewScannerWith(region string, scanCfg ScanConfig, scanners ...ResourceScanner) *Scanner {
	return &Scanner{scanners: scanners, region: region, scanConfig: scanCfg}
}

// SetProgressFn sets a callback invoked after each resource scanner completes.
func (s *Scanner) SetProgressFn(fn func(ScanProgress)) {
	s.progressFn = fn
}

// ScanAll runs every scanner in order and merges their findings.
func (s *Scanner) ScanAll(ctx context.Context) (*ScanResult, error) {
	var combined ScanResult

	for _, scanner := range s.scanners {
		slog.Debug("Running scanner", "type", scanner.Type(), "region", s.region)
		sr, err := scanner.Scan(ctx, s.scanConfig)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", s.region, scanner.Type(), err)
		}

		combined.Findings = append(combined.Findings, sr.Findings...)
		combined.ResourcesScanned += sr.ResourcesScanned

		if s.progressFn != nil {
			s.progressFn(ScanProgress{
				Region:    s.region,
				Scanner:   scanner.Type(),
				Findings:  len(sr.Findings),
				Timestamp: time.Now().UTC(),
			})
		}
	}

	return &combined, nil
}
