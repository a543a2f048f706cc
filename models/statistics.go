package models

import (
	"sort"

	"github.com/bytedance/sonic"
)

// SurveyStatistics is returned by /family-survey/admin/statistics. Fields the
// views know by name are typed; every other map or count the backend adds is
// kept in ExtraMaps and ExtraCounts so it can be rendered generically.
type SurveyStatistics struct {
	TotalSurveys                   int64            `json:"totalSurveys"`
	CompletedSurveys               int64            `json:"completedSurveys"`
	IncompleteSurveys              int64            `json:"incompleteSurveys"`
	RelationshipStatistics         map[string]int64 `json:"relationshipStatistics"`
	MeetingParticipationDesired    int64            `json:"meetingParticipationDesired"`
	MeetingParticipationNotDesired int64            `json:"meetingParticipationNotDesired"`

	ExtraMaps   map[string]map[string]int64 `json:"-"`
	ExtraCounts map[string]int64            `json:"-"`
}

var knownStatisticsFields = map[string]bool{
	"totalSurveys":                   true,
	"completedSurveys":               true,
	"incompleteSurveys":              true,
	"relationshipStatistics":         true,
	"meetingParticipationDesired":    true,
	"meetingParticipationNotDesired": true,
}

// StatisticsTitles names the extra sections the backend is known to send.
// Unlisted keys are shown as-is.
var StatisticsTitles = map[string]string{
	"griefStageStatistics":                "애도 단계별 통계",
	"familySupportLevelStatistics":        "가족 지원 수준별 통계",
	"preferredMeetingTypeStatistics":      "선호 모임 방식별 통계",
	"psychologicalSupportLevelStatistics": "심리적 지원 필요도별 통계",
	"counselingInterested":                "상담 희망",
	"counselingNotInterested":             "상담 비희망",
	"livingAloneCount":                    "홀로 거주",
	"livingWithFamilyCount":               "가족과 거주",
}

func statisticsTitle(key string) string {
	if t, ok := StatisticsTitles[key]; ok {
		return t
	}
	return key
}

func (s *SurveyStatistics) UnmarshalJSON(b []byte) error {
	type plain SurveyStatistics
	var known plain
	if err := sonic.ConfigStd.Unmarshal(b, &known); err != nil {
		return err
	}
	var all map[string]any
	if err := sonic.ConfigStd.Unmarshal(b, &all); err != nil {
		return err
	}
	*s = SurveyStatistics(known)

	for key, v := range all {
		if knownStatisticsFields[key] {
			continue
		}
		switch val := v.(type) {
		case float64:
			if s.ExtraCounts == nil {
				s.ExtraCounts = map[string]int64{}
			}
			s.ExtraCounts[key] = int64(val)
		case map[string]any:
			counts := make(map[string]int64, len(val))
			for k, n := range val {
				if f, ok := n.(float64); ok {
					counts[k] = int64(f)
				}
			}
			if s.ExtraMaps == nil {
				s.ExtraMaps = map[string]map[string]int64{}
			}
			s.ExtraMaps[key] = counts
		}
	}
	return nil
}

// StatRow is one labelled count.
type StatRow struct {
	Label string
	Count int64
}

// StatSection is one extra map rendered as a table.
type StatSection struct {
	Key   string
	Title string
	Rows  []StatRow
}

// ExtraSections returns the extra maps sorted by key, rows sorted by label.
func (s *SurveyStatistics) ExtraSections() []StatSection {
	keys := make([]string, 0, len(s.ExtraMaps))
	for k := range s.ExtraMaps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]StatSection, 0, len(keys))
	for _, k := range keys {
		m := s.ExtraMaps[k]
		labels := make([]string, 0, len(m))
		for l := range m {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		sec := StatSection{Key: k, Title: statisticsTitle(k)}
		for _, l := range labels {
			label := l
			if k == "psychologicalSupportLevelStatistics" {
				label = Label(SupportLevelOptions, l)
			}
			sec.Rows = append(sec.Rows, StatRow{Label: label, Count: m[l]})
		}
		out = append(out, sec)
	}
	return out
}

// ExtraCountRows returns the extra scalar counts sorted by key.
func (s *SurveyStatistics) ExtraCountRows() []StatRow {
	keys := make([]string, 0, len(s.ExtraCounts))
	for k := range s.ExtraCounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]StatRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, StatRow{Label: statisticsTitle(k), Count: s.ExtraCounts[k]})
	}
	return out
}
