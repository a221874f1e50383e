package model

import "time"

// BlockRef identifies a block by number together with its timestamp.
type BlockRef struct {
	Number    uint64
	Timestamp uint64
}

// Time returns the block timestamp as UTC time.
func (b BlockRef) Time() time.Time {
	return time.Unix(int64(b.Timestamp), 0).UTC()
}
