package collection

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// tempIDs hands out placeholder identifiers for books that have not been
// confirmed by the store. The sequence keeps ids unique within a process even
// when several adds land in the same millisecond.
type tempIDs struct {
	seq atomic.Uint64
	now func() time.Time
}

func newTempIDs() *tempIDs {
	return &tempIDs{now: time.Now}
}

func (g *tempIDs) next() string {
	return fmt.Sprintf("%s%d-%d", entities.TemporaryIDPrefix, g.now().UnixMilli(), g.seq.Add(1))
}
