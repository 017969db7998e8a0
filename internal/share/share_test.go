package share

import (
	"net/url"
	"strings"
	"testing"

	"valentine_quiz_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuiz() *model.Quiz {
	return &model.Quiz{
		PartnerName:   "Alex",
		SenderName:    "Sam",
		FinalMessage:  "Happy Valentine's Day!",
		FinalImageURL: "https://cdn.example.com/abc/final.jpg",
		Questions: model.QuestionList{
			{
				ID:           "q-1",
				Question:     "Where was our first date?",
				ImageURL:     "https://cdn.example.com/abc/q-0.jpg",
				Options:      []string{"The park", "That tiny ramen place", "A museum"},
				CorrectIndex: 1,
				Hint:         "We both got soup.",
				LoveNote:     "I still think about that night.",
			},
			{
				ID:           "q-2",
				Question:     "What song do I always hum?",
				Options:      []string{"Yellow", "Creep"},
				CorrectIndex: 0,
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleQuiz()

	encoded := EncodeQuiz(original)
	require.NotEmpty(t, encoded)

	decoded := DecodeQuiz(encoded)
	require.NotNil(t, decoded)

	assert.Equal(t, original.PartnerName, decoded.PartnerName)
	assert.Equal(t, original.SenderName, decoded.SenderName)
	assert.Equal(t, original.FinalMessage, decoded.FinalMessage)
	require.Len(t, decoded.Questions, 2)
	assert.Equal(t, original.Questions[0].Question, decoded.Questions[0].Question)
	assert.Equal(t, original.Questions[0].Options, decoded.Questions[0].Options)
	assert.Equal(t, original.Questions[0].CorrectIndex, decoded.Questions[0].CorrectIndex)
	assert.Equal(t, original.Questions[0].Hint, decoded.Questions[0].Hint)
	assert.Equal(t, original.Questions[0].LoveNote, decoded.Questions[0].LoveNote)
}

func TestEncodeStripsImages(t *testing.T) {
	original := sampleQuiz()

	decoded := DecodeQuiz(EncodeQuiz(original))
	require.NotNil(t, decoded)

	assert.Empty(t, decoded.FinalImageURL)
	for _, q := range decoded.Questions {
		assert.Empty(t, q.ImageURL)
	}

	// Stripping must not leak back into the caller's quiz.
	assert.Equal(t, "https://cdn.example.com/abc/final.jpg", original.FinalImageURL)
	assert.Equal(t, "https://cdn.example.com/abc/q-0.jpg", original.Questions[0].ImageURL)
}

func TestEncodeIsURLSafe(t *testing.T) {
	encoded := EncodeQuiz(sampleQuiz())

	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "/")
	assert.NotContains(t, encoded, "=")
}

func TestDecodeToleratesPadding(t *testing.T) {
	encoded := EncodeQuiz(sampleQuiz())

	padded := encoded + strings.Repeat("=", (4-len(encoded)%4)%4)
	decoded := DecodeQuiz(padded)
	require.NotNil(t, decoded)
	assert.Equal(t, "Alex", decoded.PartnerName)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"not base64":     "!!!not-base64!!!",
		"not json":       "bm90IGpzb24",
		"json non-quiz":  "eyJmb28iOiJiYXIifQ",
		"truncated":      EncodeQuiz(sampleQuiz())[:10],
		"wrong alphabet": "a+b/c==",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, DecodeQuiz(input))
		})
	}
}

func TestDecodeRejectsIncompleteQuiz(t *testing.T) {
	quiz := sampleQuiz()
	quiz.Questions = nil

	assert.Nil(t, DecodeQuiz(EncodeQuiz(quiz)))
}

func TestBuildShareURL(t *testing.T) {
	quiz := sampleQuiz()

	link := BuildShareURL("https://quiz.example.com/", quiz)
	assert.True(t, strings.HasPrefix(link, "https://quiz.example.com/?v="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)

	decoded := ExtractQuiz(parsed.Query())
	require.NotNil(t, decoded)
	assert.Equal(t, quiz.PartnerName, decoded.PartnerName)
}

func TestBuildShareURLByID(t *testing.T) {
	link := BuildShareURLByID("https://quiz.example.com", "8f14e45f-ceea-4272-adaa-53d7a4a81f44")
	assert.Equal(t, "https://quiz.example.com/?id=8f14e45f-ceea-4272-adaa-53d7a4a81f44", link)
}

func TestExtractQuizMissingParam(t *testing.T) {
	assert.Nil(t, ExtractQuiz(url.Values{}))
	assert.Nil(t, ExtractQuiz(url.Values{"id": {"abc"}}))
}
