package details

import "time"

type Condition struct {
	Code string `json:"code,omitempty"` // código clínico si se conoce (ICD-10, etc.)
	Name string `json:"name"`

	DiagnosedAt *time.Time `json:"diagnosed_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`

	Notes string `json:"notes,omitempty"`
}
