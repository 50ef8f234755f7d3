// Package fuel computes per-fuel heat shares for boilers or plants and
// classifies each entity-period by its primary fuel.
//
// ComputeFuelShares pivots long-format consumption records into a ShareTable
// and ClassifyPrimaryFuel picks the fuel whose share reaches a threshold.
// Pipeline chains both stages and reports run metrics.
package fuel
