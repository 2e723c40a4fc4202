package model

import "time"

// Reactor is a named piece of production equipment that runs are assigned to.
type Reactor struct {
	ID        int64                  `json:"-"`
	ReactorID string                 `json:"id"`
	Name      string                 `json:"name"`
	CreatedAt time.Time              `json:"created_at"`
	MetaData  map[string]interface{} `json:"meta_data,omitempty"`
}

// Product is a recipe that a production run executes on a reactor.
type Product struct {
	ID        int64     `json:"-"`
	ProductID string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DelayReason is a named category explaining why a run was held up.
type DelayReason struct {
	ID            int64     `json:"-"`
	DelayReasonID string    `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
}
