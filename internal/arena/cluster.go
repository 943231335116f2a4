package arena

import (
	"fmt"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/model"
)

// DefaultClusterID is the cluster every new account starts in.
const DefaultClusterID = 0

// DefaultCluster is the cluster present at initialization.
func DefaultCluster() model.Cluster {
	return model.Cluster{ID: DefaultClusterID, MaxLevel: MaxLevel}
}

// CheckLevel rejects dragons above the cluster's level cap.
func CheckLevel(c *model.Cluster, d *model.Dragon) error {
	if d.Level > c.MaxLevel {
		return fmt.Errorf("dragon %d level %d > cluster %d cap %d: %w",
			d.ID, d.Level, c.ID, c.MaxLevel, errs.ErrLevelTooHigh)
	}
	return nil
}

// Join puts dragonID into the cluster's waiting slot, or pairs it with the dragon
// already waiting there. A dragon never pairs with itself: joining again while
// waiting leaves the slot as is.
func Join(c *model.Cluster, dragonID uint64) (opponent uint64, paired bool) {
	if c.Waiting == nil {
		id := dragonID
		c.Waiting = &id
		return 0, false
	}
	if *c.Waiting == dragonID {
		return 0, false
	}
	opponent = *c.Waiting
	c.Waiting = nil
	return opponent, true
}
