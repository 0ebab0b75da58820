package records

type EntryType string

const (
	EntryTypeMedication  EntryType = "MEDICATION"
	EntryTypeVaccination EntryType = "VACCINATION"
	EntryTypeAllergy     EntryType = "ALLERGY"
	EntryTypeCondition   EntryType = "CONDITION"
	EntryTypeDocument    EntryType = "DOCUMENT"
	EntryTypeNote        EntryType = "NOTE"
)

func ValidEntryType(t EntryType) bool {
	switch t {
	case EntryTypeMedication, EntryTypeVaccination, EntryTypeAllergy,
		EntryTypeCondition, EntryTypeDocument, EntryTypeNote:
		return true
	default:
		return false
	}
}

type ActorType string

const (
	ActorTypePatient        ActorType = "PATIENT"
	ActorTypeExternalSystem ActorType = "EXTERNAL_SYSTEM"
)

type Source string

const (
	SourceManual      Source = "manual"
	SourceImport      Source = "import"
	SourceIntegration Source = "integration"
)

type EntryStatus string

const (
	EntryStatusActive EntryStatus = "active"
	EntryStatusVoided EntryStatus = "voided"
)
