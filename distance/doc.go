// Package distance provides float64 vector distances.
//
// # Supported Metrics
//
//   - MetricCityBlock: Σ|a[k] − b[k]| (Manhattan, L1)
//   - MetricSquaredEuclidean: Σ(a[k] − b[k])²
//
// # Usage
//
//	d := distance.CityBlock(a, b)
//	f, err := distance.Provider(distance.MetricCityBlock)
//
// NaN and ±Inf follow IEEE-754 arithmetic and propagate into the result.
package distance
