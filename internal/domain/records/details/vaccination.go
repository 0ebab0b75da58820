package details

import "time"

type Vaccination struct {
	Vaccine   string `json:"vaccine"`
	DoseNum   int    `json:"dose_num,omitempty"` // 1ra, 2da, refuerzo...
	LotNumber string `json:"lot_number,omitempty"`

	AdministeredAt time.Time  `json:"administered_at"`
	NextDueAt      *time.Time `json:"next_due_at,omitempty"`

	Clinic string `json:"clinic,omitempty"`
}
