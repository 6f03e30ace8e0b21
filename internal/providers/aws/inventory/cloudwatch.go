package inventory

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// metricWindow is the time range and resolution for a CloudWatch query.
type metricWindow struct {
	start  time.Time
	end    time.Time
	period time.Duration
}

// newMetricWindow returns a window covering the last daysBack days at
// one-hour resolution (the granularity all rate metrics are normalized to).
func newMetricWindow(daysBack int) metricWindow {
	if daysBack <= 0 {
		daysBack = 30
	}
	end := time.Now().UTC()
	return metricWindow{
		start:  end.AddDate(0, 0, -daysBack),
		end:    end,
		period: time.Hour,
	}
}

func (w metricWindow) hours() float64 {
	return w.end.Sub(w.start).Hours()
}

// fetchStatistic queries one CloudWatch metric over the window and folds the
// returned datapoints with the given statistic:
//
//	Average     → mean of hourly averages
//	Maximum     → largest hourly maximum
//	Minimum     → smallest hourly minimum
//	Sum         → total across the window
//	SampleCount → total event count across the window
//
// The second return value is false when CloudWatch had no datapoints or the
// call failed; callers must then omit the sample entirely rather than
// fabricate a zero. An unmetered resource is still audited on its other
// signals.
func fetchStatistic(
	ctx context.Context,
	cw inventoryCWClient,
	namespace, metricName string,
	dimensions []cwtypes.Dimension,
	stat cwtypes.Statistic,
	w metricWindow,
) (float64, bool) {
	out, err := cw.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(namespace),
		MetricName: aws.String(metricName),
		Dimensions: dimensions,
		StartTime:  aws.Time(w.start),
		EndTime:    aws.Time(w.end),
		Period:     aws.Int32(int32(w.period.Seconds())),
		Statistics: []cwtypes.Statistic{stat},
	})
	if err != nil || len(out.Datapoints) == 0 {
		return 0, false
	}

	var folded float64
	for i, dp := range out.Datapoints {
		switch stat {
		case cwtypes.StatisticAverage:
			folded += aws.ToFloat64(dp.Average)
		case cwtypes.StatisticMaximum:
			if v := aws.ToFloat64(dp.Maximum); i == 0 || v > folded {
				folded = v
			}
		case cwtypes.StatisticMinimum:
			if v := aws.ToFloat64(dp.Minimum); i == 0 || v < folded {
				folded = v
			}
		case cwtypes.StatisticSum:
			folded += aws.ToFloat64(dp.Sum)
		case cwtypes.StatisticSampleCount:
			folded += aws.ToFloat64(dp.SampleCount)
		}
	}
	if stat == cwtypes.StatisticAverage {
		folded /= float64(len(out.Datapoints))
	}
	return folded, true
}

// fetchHourlyRate returns the Sum of a CloudWatch counter metric converted
// to an hourly rate over the window.
func fetchHourlyRate(
	ctx context.Context,
	cw inventoryCWClient,
	namespace, metricName string,
	dimensions []cwtypes.Dimension,
	w metricWindow,
) (float64, bool) {
	total, ok := fetchStatistic(ctx, cw, namespace, metricName, dimensions, cwtypes.StatisticSum, w)
	if !ok || w.hours() <= 0 {
		return 0, false
	}
	return total / w.hours(), true
}

func dim(name, value string) cwtypes.Dimension {
	return cwtypes.Dimension{Name: aws.String(name), Value: aws.String(value)}
}
