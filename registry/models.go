package registry

import "time"

// PrintJob - one registered printed page. Width/height snapshot the
// paper size at print time.
type PrintJob struct {
	ID        int64     `json:"id"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

func (j *PrintJob) GetID() int64 {
	return j.ID
}

func (j *PrintJob) TargetFields() []any {
	return []any{
		&j.ID,
		&j.Width,
		&j.Height,
		&j.CreatedAt,
	}
}

// PageMember - one order item printed on a job's page.
type PageMember struct {
	ID     int64 `json:"id"`
	JobID  int64 `json:"job_id"`
	ItemID int64 `json:"item_id"`
}

func (m *PageMember) GetID() int64 {
	return m.ID
}

func (m *PageMember) TargetFields() []any {
	return []any{
		&m.ID,
		&m.JobID,
		&m.ItemID,
	}
}
