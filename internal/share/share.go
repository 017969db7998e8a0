// Package share implements the URL-embedded quiz transport: a reversible
// URL-safe encoding used when no persisted record exists, plus the share
// link builders for both transports.
package share

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"valentine_quiz_backend/internal/model"
)

// EncodeQuiz serializes the quiz to JSON and encodes it URL-safe without
// padding. Image fields are stripped first: embedded image data would blow
// past practical URL length limits, so only the textual structure travels
// through this channel.
func EncodeQuiz(quiz *model.Quiz) string {
	stripped := quiz.Clone()
	stripped.FinalImageURL = ""
	for i := range stripped.Questions {
		stripped.Questions[i].ImageURL = ""
	}

	// Marshal of a Quiz cannot fail: every field is a plain string, int or
	// slice of those.
	raw, _ := json.Marshal(stripped)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeQuiz is the inverse of EncodeQuiz. It returns nil for any input that
// does not decode to a plausible quiz; it never panics and never returns an
// error, since a bad share link is an expected condition, not a fault.
func DecodeQuiz(encoded string) *model.Quiz {
	// Tolerate both padded and unpadded forms.
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil
	}

	var quiz model.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil
	}

	if quiz.PartnerName == "" || quiz.SenderName == "" || len(quiz.Questions) == 0 {
		return nil
	}

	return &quiz
}

// BuildShareURL embeds the encoded quiz as the v query parameter on the
// origin's root path. Fallback transport for when persistence is unavailable;
// carries no images.
func BuildShareURL(baseURL string, quiz *model.Quiz) string {
	return strings.TrimRight(baseURL, "/") + "/?v=" + EncodeQuiz(quiz)
}

// BuildShareURLByID links to a persisted record. Preferred over BuildShareURL
// when the save succeeded: short, and the record keeps its images.
func BuildShareURLByID(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/?id=" + url.QueryEscape(id)
}

// ExtractQuiz reads the v parameter from a parsed query string. A missing
// parameter yields nil quietly; an unparseable one decodes to nil the same
// way, so callers treat both as "no embedded quiz".
func ExtractQuiz(query url.Values) *model.Quiz {
	encoded := query.Get("v")
	if encoded == "" {
		return nil
	}
	return DecodeQuiz(encoded)
}
