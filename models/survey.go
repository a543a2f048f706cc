package models

// Relationship to the deceased.
type Relationship string

const (
	RelationshipSpouse  Relationship = "SPOUSE"
	RelationshipChild   Relationship = "CHILD"
	RelationshipParent  Relationship = "PARENT"
	RelationshipSibling Relationship = "SIBLING"
	RelationshipOther   Relationship = "OTHER"
)

// SupportLevel is the self-reported need for psychological support.
type SupportLevel string

const (
	SupportHigh   SupportLevel = "HIGH"
	SupportMedium SupportLevel = "MEDIUM"
	SupportLow    SupportLevel = "LOW"
	SupportNone   SupportLevel = "NONE"
)

// Option is a value/label pair rendered in selects and radio groups.
type Option struct {
	Value string
	Label string
}

var RelationshipOptions = []Option{
	{Value: string(RelationshipSpouse), Label: "배우자"},
	{Value: string(RelationshipChild), Label: "자녀"},
	{Value: string(RelationshipParent), Label: "부모"},
	{Value: string(RelationshipSibling), Label: "형제자매"},
	{Value: string(RelationshipOther), Label: "기타"},
}

var SupportLevelOptions = []Option{
	{Value: string(SupportHigh), Label: "높음 (전문적인 도움이 많이 필요)"},
	{Value: string(SupportMedium), Label: "보통 (어느 정도 도움이 필요)"},
	{Value: string(SupportLow), Label: "낮음 (조금의 도움이 필요)"},
	{Value: string(SupportNone), Label: "필요없음 (현재 괜찮음)"},
}

func validOption(options []Option, v string) bool {
	for _, o := range options {
		if o.Value == v {
			return true
		}
	}
	return false
}

func (r Relationship) Valid() bool { return validOption(RelationshipOptions, string(r)) }

func (l SupportLevel) Valid() bool { return validOption(SupportLevelOptions, string(l)) }

// Label returns the display label of v, or v itself.
func Label(options []Option, v string) string {
	for _, o := range options {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}

// Survey is a family survey record as returned by /family-survey.
type Survey struct {
	ID                         int64        `json:"id"`
	UserID                     int64        `json:"userId"`
	UserName                   string       `json:"userName"`
	BirthDate                  string       `json:"birthDate"`
	RelationshipToDeceased     Relationship `json:"relationshipToDeceased"`
	RelationshipDescription    string       `json:"relationshipDescription"`
	PsychologicalSupportLevel  SupportLevel `json:"psychologicalSupportLevel"`
	MeetingParticipationDesire bool         `json:"meetingParticipationDesire"`
	PersonalNotes              string       `json:"personalNotes"`
	PrivacyAgreement           bool         `json:"privacyAgreement"`
	SurveyCompleted            bool         `json:"surveyCompleted"`
	CreatedAt                  Timestamp    `json:"createdAt"`
	UpdatedAt                  Timestamp    `json:"updatedAt"`
}

// SurveyRequest is the body of POST /family-survey/submit.
type SurveyRequest struct {
	BirthDate                  string       `json:"birthDate" form:"birthDate"`
	RelationshipToDeceased     Relationship `json:"relationshipToDeceased" form:"relationshipToDeceased"`
	RelationshipDescription    string       `json:"relationshipDescription" form:"relationshipDescription"`
	PsychologicalSupportLevel  SupportLevel `json:"psychologicalSupportLevel" form:"psychologicalSupportLevel"`
	MeetingParticipationDesire bool         `json:"meetingParticipationDesire" form:"meetingParticipationDesire"`
	PersonalNotes              string       `json:"personalNotes" form:"personalNotes"`
	PrivacyAgreement           bool         `json:"privacyAgreement" form:"privacyAgreement"`
}
