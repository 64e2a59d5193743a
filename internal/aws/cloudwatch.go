package aws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	// maxMetricDataQueries is the maximum number of metric queries per GetMetricData call.
	maxMetricDataQueries = 500
	// metricPeriodSeconds aggregates datapoints per calendar day.
	metricPeriodSeconds = 86400
)

// CloudWatchAPI is the minimal interface for CloudWatch operations needed by the metrics fetcher.
type CloudWatchAPI interface {
	GetMetricData(ctx context.Context, input *cloudwatch.GetMetricDataInput, opts ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error)
}

// MetricsFetcher retrieves CloudWatch metrics in batches.
type MetricsFetcher struct {
	client CloudWatchAPI
	now    func() time.Time
}

// NewMetricsFetcher creates a fetcher using the given CloudWatch client.
func NewMetricsFetcher(client CloudWatchAPI) *MetricsFetcher {
	return &MetricsFetcher{client: client, now: time.Now}
}

// FetchDailyAverage retrieves daily averages of a metric for each resource ID over
// the lookback window and returns the mean of those daily values per ID.
// Resources without datapoints are absent from the returned map.
func (f *MetricsFetcher) FetchDailyAverage(ctx context.Context, namespace, metricName, dimensionName string, ids []string, lookbackDays int) (map[string]float64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	end := f.now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)

	results := make(map[string]float64, len(ids))
	batches := batchIDs(ids, maxMetricDataQueries)

	for batchIdx, batch := range batches {
		slog.Debug("Fetching CloudWatch metrics", "batch", batchIdx+1, "total_batches", len(batches), "metric", metricName, "count", len(batch))

		queries := make([]cwtypes.MetricDataQuery, 0, len(batch))
		for i, id := range batch {
			queries = append(queries, cwtypes.MetricDataQuery{
				Id: awssdk.String(fmt.Sprintf("m%d", i)),
				MetricStat: &cwtypes.MetricStat{
					Metric: &cwtypes.Metric{
						Namespace:  awssdk.String(namespace),
						MetricName: awssdk.String(metricName),
						Dimensions: []cwtypes.Dimension{
							{
								Name:  awssdk.String(dimensionName),
								Value: awssdk.String(id),
							},
						},
					},
					Period: awssdk.Int32(metricPeriodSeconds),
					Stat:   awssdk.String("Average"),
				},
			})
		}

		values := make(map[int][]float64, len(batch))
		paginator := cloudwatch.NewGetMetricDataPaginator(f.client, &cloudwatch.GetMetricDataInput{
			MetricDataQueries: queries,
			StartTime:         awssdk.Time(start),
			EndTime:           awssdk.Time(end),
		})
		for paginator.HasMorePages() {
			out, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("get metric data (%s/%s): %w", namespace, metricName, err)
			}
			for _, result := range out.MetricDataResults {
				if result.Id == nil {
					continue
				}
				// Map the query ID back to its position in the batch.
				var idx int
				if _, err := fmt.Sscanf(*result.Id, "m%d", &idx); err != nil || idx >= len(batch) {
					continue
				}
				values[idx] = append(values[idx], result.Values...)
			}
		}

		for idx, vals := range values {
			if len(vals) == 0 {
				continue
			}
			results[batch[idx]] = mean(vals)
		}
	}

	return results, nil
}

func mean(vals []float64) float64 {
	var total float64
	for _, v := range vals {
		total += v
	}
	return total / float64(len(vals))
}

// batchIDs splits a slice of IDs into batches of the given size.
func batchIDs(ids []string, batchSize int) [][]string {
	if batchSize <= 0 {
		batchSize = maxMetricDataQueries
	}

	var batches [][]string
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[i:end])
	}
	return batches
}
