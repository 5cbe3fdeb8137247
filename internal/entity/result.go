package entity

import (
	"fmt"

	"github.com/amterp/trellis/internal/queue"
)

// FlushResult describes one flush of an entity's write queue.
type FlushResult struct {
	Method string
	Path   string
	// Sent holds the parameters that left the queue, in order.
	Sent []queue.Param
	// Skipped is true when nothing was sent: the queue was empty or no
	// transport was attached.
	Skipped bool
}

// WriteError is a failed flush. The parameters in Result.Sent are no longer
// queued; pass Result to Requeue to retry them.
type WriteError struct {
	Entity string
	ID     string
	Result FlushResult
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s %s dropped %d param(s): %v", e.Entity, e.ID, len(e.Result.Sent), e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Dropped returns the parameters the failed write did not deliver.
func (e *WriteError) Dropped() []queue.Param {
	return e.Result.Sent
}
