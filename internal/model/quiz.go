package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// QuizQuestion is one multiple-choice question. Question ids are generated
// client-side and stay stable across edits; blob paths are derived from them.
type QuizQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Hint         string   `json:"hint,omitempty"`
	LoveNote     string   `json:"loveNote,omitempty"`
}

// QuestionList is stored as a JSON array in a single column; the wire shape
// and the column shape are identical.
type QuestionList []QuizQuestion

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*l = QuestionList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported questions column type %T", value)
	}
}

// Quiz is a valentine quiz. A draft has no id until persisted; a persisted
// record is immutable once written.
type Quiz struct {
	UUIDBase
	PartnerName   string       `gorm:"column:partner_name;size:255;not null" json:"partnerName"`
	SenderName    string       `gorm:"column:sender_name;size:255;not null" json:"senderName"`
	FinalMessage  string       `gorm:"column:final_message;type:text" json:"finalMessage,omitempty"`
	FinalImageURL string       `gorm:"column:final_image_url;type:text" json:"finalImageUrl,omitempty"`
	Questions     QuestionList `gorm:"column:questions;type:json" json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// IsComplete is the completeness predicate gating both setup-step navigation
// and the save endpoint.
func (q *Quiz) IsComplete() bool {
	return len(q.Problems()) == 0
}

// Problems lists everything keeping the quiz from being complete, phrased
// for inline display next to the offending step.
func (q *Quiz) Problems() []string {
	var problems []string

	if strings.TrimSpace(q.PartnerName) == "" {
		problems = append(problems, "partner name is required")
	}
	if strings.TrimSpace(q.SenderName) == "" {
		problems = append(problems, "sender name is required")
	}
	if len(q.Questions) == 0 {
		problems = append(problems, "at least one question is required")
	}

	for i, question := range q.Questions {
		if strings.TrimSpace(question.Question) == "" {
			problems = append(problems, fmt.Sprintf("question %d needs a prompt", i+1))
		}
		for _, option := range question.Options {
			if strings.TrimSpace(option) == "" {
				problems = append(problems, fmt.Sprintf("question %d has empty options", i+1))
				break
			}
		}
		if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Options) {
			problems = append(problems, fmt.Sprintf("question %d has an out-of-range answer", i+1))
		}
	}

	return problems
}

// Clone deep-copies the quiz so callers can rewrite image fields without
// touching the original.
func (q *Quiz) Clone() *Quiz {
	clone := *q
	clone.Questions = make(QuestionList, len(q.Questions))
	for i, question := range q.Questions {
		copied := question
		copied.Options = append([]string(nil), question.Options...)
		clone.Questions[i] = copied
	}
	return &clone
}

// Memories returns the questions worth showing on the memory wall: those
// carrying a photo or a love note.
func (q *Quiz) Memories() []QuizQuestion {
	var memories []QuizQuestion
	for _, question := range q.Questions {
		if question.ImageURL != "" || question.LoveNote != "" {
			memories = append(memories, question)
		}
	}
	return memories
}
