package cluster

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/driverisk/internal/logging"
	"github.com/abhisek/driverisk/internal/trip"
)

// Groups is the number of driving-pattern clusters.
const Groups = 2

// Clusterer labels a batch of trips with a driving-pattern group.
type Clusterer struct {
	partitioner Partitioner
	logger      *zap.Logger
}

// NewClusterer creates a Clusterer backed by p. A nil logger discards output.
func NewClusterer(p Partitioner, logger *zap.Logger) *Clusterer {
	return &Clusterer{partitioner: p, logger: logging.OrNop(logger)}
}

// Assign sets Group on every trip in place. With fewer than Groups
// distinct (speed, hard brakes) points there is nothing to partition and
// every trip is put in group 0.
func (c *Clusterer) Assign(trips []trip.Trip) error {
	if distinctPoints(trips) < Groups {
		for i := range trips {
			trips[i].Group = 0
		}
		c.logger.Info("too few distinct trips to cluster, using group 0",
			zap.Int("trips", len(trips)))
		return nil
	}

	points := make([][]float64, len(trips))
	for i, t := range trips {
		points[i] = t.Features()
	}

	labels, err := c.partitioner.Partition(points, Groups)
	if err != nil {
		return fmt.Errorf("partition trips: %w", err)
	}
	if len(labels) != len(trips) {
		return fmt.Errorf("partition trips: got %d labels for %d trips", len(labels), len(trips))
	}
	for i, l := range labels {
		if l < 0 || l >= Groups {
			return fmt.Errorf("partition trips: label %d out of range", l)
		}
		trips[i].Group = l
	}

	c.logger.Info("clustered driving patterns",
		zap.Int("trips", len(trips)),
		zap.Ints("groups", labels))
	return nil
}

func distinctPoints(trips []trip.Trip) int {
	seen := make(map[[2]int]struct{}, len(trips))
	for _, t := range trips {
		seen[[2]int{t.SpeedKmh, t.HardBrakes}] = struct{}{}
	}
	return len(seen)
}
