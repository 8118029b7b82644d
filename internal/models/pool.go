package models

type WorkerStatus struct {
	ID    int    `json:"id"`
	State string `json:"state"`
}

type PoolStatus struct {
	Workers   int            `json:"workers"`
	Busy      int            `json:"busy"`
	Idle      int            `json:"idle"`
	Queued    int            `json:"queued"`
	Submitted int64          `json:"submitted"`
	Executed  int64          `json:"executed"`
	Panicked  int64          `json:"panicked"`
	Discarded int64          `json:"discarded"`
	States    []WorkerStatus `json:"states"`
}

type Health struct {
	Status string `json:"status"`
}
