package details

type AllergySeverity string

const (
	SeverityMild     AllergySeverity = "mild"
	SeverityModerate AllergySeverity = "moderate"
	SeveritySevere   AllergySeverity = "severe"
)

type Allergy struct {
	Substance string          `json:"substance"`
	Reaction  string          `json:"reaction,omitempty"`
	Severity  AllergySeverity `json:"severity,omitempty"`
}
