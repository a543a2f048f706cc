package survey

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cokothon/models"
)

const (
	MaxDescriptionLength = 100
	MaxNotesLength       = 500

	MsgBirthDateRequired    = "생년월일을 입력해주세요."
	MsgBirthDateInvalid     = "생년월일 형식이 올바르지 않습니다."
	MsgRelationshipRequired = "사망자와의 관계를 선택해주세요."
	MsgDescriptionRequired  = "기타 관계에 대한 설명을 입력해주세요."
	MsgDescriptionTooLong   = "관계 설명은 100자 이하로 입력해주세요."
	MsgSupportRequired      = "심리적 지원 필요도를 선택해주세요."
	MsgPrivacyRequired      = "개인정보 처리 동의는 필수입니다."
	MsgNotesTooLong         = "개인 메모는 500자 이하로 입력해주세요."
	MsgSaved                = "설문조사가 성공적으로 저장되었습니다."
	MsgSaveFailed           = "설문조사 저장 중 오류가 발생했습니다."
	MsgLoadFailed           = "설문조사 정보를 불러오는 중 오류가 발생했습니다."
	MsgDeleted              = "설문조사가 삭제되었습니다."
	MsgDeleteFailed         = "설문조사 삭제 중 오류가 발생했습니다."

	birthDateLayout = "2006-01-02"
)

// ValidationError carries the first failed form check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Form is the raw survey form. Checkboxes arrive as "on" or "true" when
// ticked and are absent otherwise.
type Form struct {
	BirthDate                  string `form:"birthDate"`
	RelationshipToDeceased     string `form:"relationshipToDeceased"`
	RelationshipDescription    string `form:"relationshipDescription"`
	PsychologicalSupportLevel  string `form:"psychologicalSupportLevel"`
	MeetingParticipationDesire string `form:"meetingParticipationDesire"`
	PersonalNotes              string `form:"personalNotes"`
	PrivacyAgreement           string `form:"privacyAgreement"`
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Request converts the form without validating it.
func (f Form) Request() models.SurveyRequest {
	return models.SurveyRequest{
		BirthDate:                  strings.TrimSpace(f.BirthDate),
		RelationshipToDeceased:     models.Relationship(strings.TrimSpace(f.RelationshipToDeceased)),
		RelationshipDescription:    strings.TrimSpace(f.RelationshipDescription),
		PsychologicalSupportLevel:  models.SupportLevel(strings.TrimSpace(f.PsychologicalSupportLevel)),
		MeetingParticipationDesire: checked(f.MeetingParticipationDesire),
		PersonalNotes:              strings.TrimSpace(f.PersonalNotes),
		PrivacyAgreement:           checked(f.PrivacyAgreement),
	}
}

// Prefill maps an existing record back onto the request shape rendered by
// the form. A nil survey yields the empty form.
func Prefill(s *models.Survey) models.SurveyRequest {
	if s == nil {
		return models.SurveyRequest{}
	}
	return models.SurveyRequest{
		BirthDate:                  s.BirthDate,
		RelationshipToDeceased:     s.RelationshipToDeceased,
		RelationshipDescription:    s.RelationshipDescription,
		PsychologicalSupportLevel:  s.PsychologicalSupportLevel,
		MeetingParticipationDesire: s.MeetingParticipationDesire,
		PersonalNotes:              s.PersonalNotes,
		PrivacyAgreement:           s.PrivacyAgreement,
	}
}

// Validate checks req in display order. The description is dropped unless
// the relationship is OTHER.
func Validate(req models.SurveyRequest) (models.SurveyRequest, error) {
	if req.BirthDate == "" {
		return req, &ValidationError{Field: "birthDate", Message: MsgBirthDateRequired}
	}
	if d, err := time.Parse(birthDateLayout, req.BirthDate); err != nil || d.After(time.Now()) {
		return req, &ValidationError{Field: "birthDate", Message: MsgBirthDateInvalid}
	}
	if !req.RelationshipToDeceased.Valid() {
		return req, &ValidationError{Field: "relationshipToDeceased", Message: MsgRelationshipRequired}
	}
	if req.RelationshipToDeceased == models.RelationshipOther {
		if req.RelationshipDescription == "" {
			return req, &ValidationError{Field: "relationshipDescription", Message: MsgDescriptionRequired}
		}
		if utf8.RuneCountInString(req.RelationshipDescription) > MaxDescriptionLength {
			return req, &ValidationError{Field: "relationshipDescription", Message: MsgDescriptionTooLong}
		}
	} else {
		req.RelationshipDescription = ""
	}
	if !req.PsychologicalSupportLevel.Valid() {
		return req, &ValidationError{Field: "psychologicalSupportLevel", Message: MsgSupportRequired}
	}
	if !req.PrivacyAgreement {
		return req, &ValidationError{Field: "privacyAgreement", Message: MsgPrivacyRequired}
	}
	if utf8.RuneCountInString(req.PersonalNotes) > MaxNotesLength {
		return req, &ValidationError{Field: "personalNotes", Message: MsgNotesTooLong}
	}
	return req, nil
}

// StatusLabel is the badge shown next to an existing survey.
func StatusLabel(s *models.Survey) string {
	if s == nil {
		return ""
	}
	if s.SurveyCompleted {
		return "완료됨"
	}
	return "임시저장"
}

// Filter selects which admin list to show.
type Filter string

const (
	FilterCompleted    Filter = "completed"
	FilterIncomplete   Filter = "incomplete"
	FilterMeeting      Filter = "meeting"
	FilterSupport      Filter = "support"
	FilterRelationship Filter = "relationship"
)

// AdminQuery is the parsed admin list query. SupportLevel and Relationship
// take precedence over Filter when valid.
type AdminQuery struct {
	Filter       Filter
	SupportLevel models.SupportLevel
	Relationship models.Relationship
}

func ParseAdminQuery(filter, supportLevel, relationship string) AdminQuery {
	q := AdminQuery{}
	switch Filter(filter) {
	case FilterCompleted, FilterIncomplete, FilterMeeting:
		q.Filter = Filter(filter)
	default:
		q.Filter = FilterCompleted
	}
	if lvl := models.SupportLevel(supportLevel); lvl.Valid() {
		q.Filter = FilterSupport
		q.SupportLevel = lvl
	} else if rel := models.Relationship(relationship); rel.Valid() {
		q.Filter = FilterRelationship
		q.Relationship = rel
	}
	return q
}
