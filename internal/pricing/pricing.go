package pricing

import "maps"

const hoursPerMonth = 730

// Default price assumptions in USD.
const (
	DefaultEBSPerGBMonth           = 0.10
	DefaultSnapshotPerGBMonth      = 0.05
	DefaultElasticIPMonthly        = 3.60
	DefaultInstanceMonthlyFallback = 50.0
)

// instanceMonthly holds on-demand monthly estimates keyed by instance type.
var instanceMonthly = map[string]float64{
	"t2.micro":  8.35,
	"t2.small":  16.79,
	"t2.medium": 33.58,
	"t3.micro":  7.59,
	"t3.small":  15.18,
	"t3.medium": 30.37,
	"t3.large":  0.0832 * hoursPerMonth,
	"t3.xlarge": 0.1664 * hoursPerMonth,
	"m5.large":  0.096 * hoursPerMonth,
	"m5.xlarge": 0.192 * hoursPerMonth,
	"c5.large":  0.085 * hoursPerMonth,
	"r5.large":  0.126 * hoursPerMonth,
}

// Rates are the per-unit price assumptions applied to findings.
// Zero values fall back to the defaults above.
type Rates struct {
	EBSPerGBMonth          float64
	SnapshotPerGBMonth     float64
	ElasticIPMonthly       float64
	DefaultInstanceMonthly float64
	InstanceMonthly        map[string]float64
}

// Table is an immutable price lookup built from Rates.
type Table struct {
	ebsPerGB      float64
	snapshotPerGB float64
	eipMonthly    float64
	fallback      float64
	instances     map[string]float64
}

// NewTable builds a lookup table, merging instance overrides over the built-in table.
func NewTable(r Rates) *Table {
	instances := maps.Clone(instanceMonthly)
	for k, v := range r.InstanceMonthly {
		instances[k] = v
	}
	return &Table{
		ebsPerGB:      orDefault(r.EBSPerGBMonth, DefaultEBSPerGBMonth),
		snapshotPerGB: orDefault(r.SnapshotPerGBMonth, DefaultSnapshotPerGBMonth),
		eipMonthly:    orDefault(r.ElasticIPMonthly, DefaultElasticIPMonthly),
		fallback:      orDefault(r.DefaultInstanceMonthly, DefaultInstanceMonthlyFallback),
		instances:     instances,
	}
}

// Default returns a table with the built-in assumptions.
func Default() *Table {
	return NewTable(Rates{})
}

// MonthlyEBSCost returns the monthly cost of a volume of sizeGiB.
func (t *Table) MonthlyEBSCost(sizeGiB int) float64 {
	return Round(t.ebsPerGB * float64(sizeGiB))
}

// MonthlySnapshotCost returns the monthly cost of a snapshot of sizeGiB.
func (t *Table) MonthlySnapshotCost(sizeGiB int) float64 {
	return Round(t.snapshotPerGB * float64(sizeGiB))
}

// MonthlyEIPCost returns the flat monthly fee for an unused Elastic IP.
func (t *Table) MonthlyEIPCost() float64 {
	return Round(t.eipMonthly)
}

// MonthlyEC2Cost returns the monthly estimate for instanceType.
// Unknown types return the fallback estimate and false.
func (t *Table) MonthlyEC2Cost(instanceType string) (float64, bool) {
	cost, ok := t.instances[instanceType]
	if !ok {
		return Round(t.fallback), false
	}
	return Round(cost), true
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
