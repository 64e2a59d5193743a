package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// Client wraps the AWS SDK configuration for creating service clients.
// Region and profile are bound once at construction.
type Client struct {
	cfg aws.Config
}

// NewClient creates a new AWS client using the specified profile and region.
// If profile is empty, the default credential chain is used.
// If region is empty, the default region from config/env is used.
func NewClient(ctx context.Context, profile, region string) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if profile != "" && profile != "default" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no region specified; use --region, aws.region in config, or set AWS_REGION")
	}

	return &Client{cfg: cfg}, nil
}

// Region returns the region the client is bound to.
func (c *Client) Region() string {
	return c.cfg.Region
}

// ConfigForRegion returns a copy of the AWS config with the region overridden.
func (c *Client) ConfigForRegion(region string) aws.Config {
	cfg := c.cfg.Copy()
	cfg.Region = region
	return cfg
}

// EC2 returns an EC2 client for the bound region.
func (c *Client) EC2() *ec2.Client {
	return ec2.NewFromConfig(c.cfg)
}

// CloudWatch returns a CloudWatch client for the bound region.
func (c *Client) CloudWatch() *cloudwatch.Client {
	return cloudwatch.NewFromConfig(c.cfg)
}

// CostExplorer returns a Cost Explorer client. The API is served from a single region.
func (c *Client) CostExplorer() *costexplorer.Client {
	return costexplorer.NewFromConfig(c.ConfigForRegion(CostExplorerRegion))
}
