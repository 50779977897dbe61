// Package health aggregates provider statuses into a single engine status.
package health

import "github.com/Alias1177/Accumulator/models"

// Reduce collapses component statuses: any error wins, otherwise all-healthy
// is healthy and anything else is degraded. No components means healthy.
func Reduce(statuses []string) string {
	if len(statuses) == 0 {
		return models.StatusHealthy
	}
	allHealthy := true
	for _, s := range statuses {
		switch s {
		case models.StatusError:
			return models.StatusError
		case models.StatusHealthy:
		default:
			allHealthy = false
		}
	}
	if allHealthy {
		return models.StatusHealthy
	}
	return models.StatusDegraded
}
