package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeQuiz() *Quiz {
	return &Quiz{
		PartnerName: "Alex",
		SenderName:  "Sam",
		Questions: QuestionList{
			{
				ID:           "q-1",
				Question:     "Where was our first date?",
				Options:      []string{"The park", "That tiny ramen place"},
				CorrectIndex: 1,
			},
		},
	}
}

func TestIsComplete(t *testing.T) {
	assert.True(t, completeQuiz().IsComplete())
}

func TestProblems(t *testing.T) {
	t.Run("missing partner name", func(t *testing.T) {
		quiz := completeQuiz()
		quiz.PartnerName = "   "
		problems := quiz.Problems()
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "partner name")
	})

	t.Run("missing sender name", func(t *testing.T) {
		quiz := completeQuiz()
		quiz.SenderName = ""
		problems := quiz.Problems()
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "sender name")
	})

	t.Run("no questions", func(t *testing.T) {
		quiz := completeQuiz()
		quiz.Questions = nil
		problems := quiz.Problems()
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "at least one question")
	})

	t.Run("empty prompt", func(t *testing.T) {
		quiz := completeQuiz()
		quiz.Questions[0].Question = " "
		problems := quiz.Problems()
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "prompt")
	})

	t.Run("blank option", func(t *testing.T) {
		quiz := completeQuiz()
		quiz.Questions[0].Options = []string{"The park", ""}
		problems := quiz.Problems()
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "empty options")
	})

	t.Run("answer index out of range", func(t *testing.T) {
		quiz := completeQuiz()
		quiz.Questions[0].CorrectIndex = 2
		problems := quiz.Problems()
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "out-of-range")

		quiz.Questions[0].CorrectIndex = -1
		problems = quiz.Problems()
		require.Len(t, problems, 1)
	})

	t.Run("several problems accumulate", func(t *testing.T) {
		quiz := &Quiz{
			Questions: QuestionList{
				{Options: []string{"a"}, CorrectIndex: 3},
			},
		}
		assert.Len(t, quiz.Problems(), 4)
	})
}

func TestClone(t *testing.T) {
	quiz := completeQuiz()
	quiz.FinalImageURL = "https://cdn.example.com/abc/final.jpg"
	quiz.Questions[0].ImageURL = "https://cdn.example.com/abc/q-0.jpg"

	clone := quiz.Clone()
	clone.FinalImageURL = ""
	clone.Questions[0].ImageURL = ""
	clone.Questions[0].Options[0] = "changed"

	assert.Equal(t, "https://cdn.example.com/abc/final.jpg", quiz.FinalImageURL)
	assert.Equal(t, "https://cdn.example.com/abc/q-0.jpg", quiz.Questions[0].ImageURL)
	assert.Equal(t, "The park", quiz.Questions[0].Options[0])
}

func TestMemories(t *testing.T) {
	quiz := &Quiz{
		Questions: QuestionList{
			{ID: "a", ImageURL: "https://cdn.example.com/a.jpg"},
			{ID: "b"},
			{ID: "c", LoveNote: "remember this"},
			{ID: "d", ImageURL: "https://cdn.example.com/d.jpg", LoveNote: "both"},
		},
	}

	memories := quiz.Memories()
	require.Len(t, memories, 3)
	assert.Equal(t, "a", memories[0].ID)
	assert.Equal(t, "c", memories[1].ID)
	assert.Equal(t, "d", memories[2].ID)
}

func TestQuizWireShape(t *testing.T) {
	quiz := completeQuiz()
	quiz.Questions[0].Hint = "soup"

	raw, err := json.Marshal(quiz)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))

	assert.Equal(t, "Alex", m["partnerName"])
	assert.Equal(t, "Sam", m["senderName"])
	assert.NotContains(t, m, "finalMessage", "empty optionals are omitted")
	assert.NotContains(t, m, "finalImageUrl")
	assert.NotContains(t, m, "CreatedAt")
	assert.NotContains(t, m, "createdAt")

	questions, ok := m["questions"].([]interface{})
	require.True(t, ok)
	q0 := questions[0].(map[string]interface{})
	assert.Equal(t, "q-1", q0["id"])
	assert.Equal(t, float64(1), q0["correctIndex"])
	assert.Equal(t, "soup", q0["hint"])
	assert.NotContains(t, q0, "loveNote")
}

func TestQuestionListColumnCodec(t *testing.T) {
	list := QuestionList{{ID: "q-1", Question: "p", Options: []string{"a", "b"}}}

	value, err := list.Value()
	require.NoError(t, err)

	var scanned QuestionList
	require.NoError(t, scanned.Scan([]byte(value.(string))))
	require.Len(t, scanned, 1)
	assert.Equal(t, "q-1", scanned[0].ID)

	var fromNil QuestionList
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)

	assert.Error(t, scanned.Scan(42))
}
