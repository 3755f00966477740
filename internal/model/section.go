package model

// Section names a block of the employee profile that is submitted as one
// PATCH request (PATCH employees/{id}/{section}).
type Section string

const (
	SectionBasicInfo         Section = "basic-info"
	SectionPersonalDetails   Section = "personal-details"
	SectionContactInfo       Section = "contact-info"
	SectionEmploymentDetails Section = "employment-details"
	SectionAttendance        Section = "attendance"
	SectionBankDetails       Section = "bank-details"
	SectionDocuments         Section = "documents"
)

// AllSections lists every profile section in display order.
var AllSections = []Section{
	SectionBasicInfo,
	SectionPersonalDetails,
	SectionContactInfo,
	SectionEmploymentDetails,
	SectionAttendance,
	SectionBankDetails,
	SectionDocuments,
}

// String returns the string representation of the section.
func (s Section) String() string {
	return string(s)
}

// IsValid checks whether the section is a known value.
func (s Section) IsValid() bool {
	for _, known := range AllSections {
		if s == known {
			return true
		}
	}
	return false
}
