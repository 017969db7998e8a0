// Package flow drives a single player's journey through the app: building a
// quiz, previewing it, playing a shared one and reaching the final reveal.
// The session is a mutex-guarded state machine; the only asynchronous inputs
// are the two timed auto-transitions and the initial deep-link fetch.
package flow

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"valentine_quiz_backend/internal/model"
	"valentine_quiz_backend/internal/share"
)

type Screen string

const (
	ScreenLanding     Screen = "landing"
	ScreenSetup       Screen = "setup"
	ScreenPreview     Screen = "preview"
	ScreenQuiz        Screen = "quiz"
	ScreenFinalReveal Screen = "final-reveal"
	ScreenInvalidLink Screen = "invalid-link"
)

type SetupStep string

const (
	StepNames        SetupStep = "names"
	StepQuestions    SetupStep = "questions"
	StepFinalMessage SetupStep = "final-message"
)

type RevealStage int

const (
	StageScore RevealStage = iota
	StageEnvelope
	StageQuestion
	StageResponse
	StageMemoryWall
)

const (
	maxQuestions = 10
	minOptions   = 2
	maxOptions   = 4

	// Auto-transition timings: score card lingers before the envelope
	// appears; memory-wall cards surface one per interval.
	scoreRevealDelay     = 2500 * time.Millisecond
	memoryRevealInterval = 400 * time.Millisecond
)

// The quiz intro precedes question zero.
const introIndex = -1

// QuizFetcher resolves an id deep link to its persisted quiz.
type QuizFetcher interface {
	FetchQuiz(ctx context.Context, id string) (*model.Quiz, error)
}

// LaunchContext carries the query parameters the app was opened with,
// so the session never reads ambient location state itself.
type LaunchContext struct {
	IDParam string
	VParam  string
}

// TimerFunc schedules the timed auto-transitions; tests swap it for a
// synchronous fake.
type TimerFunc func(d time.Duration, f func()) *time.Timer

type Option func(*Session)

func WithTimerFunc(fn TimerFunc) Option {
	return func(s *Session) { s.timer = fn }
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// Session is one visitor's state. All exported methods are safe for the
// timer callbacks to race with user actions; a stale timer firing after the
// screen moved on is ignored.
type Session struct {
	mu      sync.Mutex
	fetcher QuizFetcher
	timer   TimerFunc
	rng     *rand.Rand

	screen   Screen
	fromLink bool
	quiz     *model.Quiz

	// setup wizard
	step  SetupStep
	draft *model.Quiz
	errs  []string

	// quiz play
	index     int
	selected  int
	answered  bool
	hintShown bool
	noteShown bool
	score     int
	streak    int
	feedback  string
	lastright string
	lastwrong string

	// final reveal
	stage           RevealStage
	finalScore      int
	response        string
	memories        []model.QuizQuestion
	visibleMemories int
}

func NewSession(fetcher QuizFetcher, opts ...Option) *Session {
	s := &Session{
		fetcher: fetcher,
		timer:   time.AfterFunc,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		screen:  ScreenLanding,
		index:   introIndex,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Launch applies the deep-link parameters. An id parameter wins over v; an
// id that cannot be fetched lands on the invalid-link screen, whose only
// recovery is Restart. A missing or garbled v parameter quietly stays on
// landing.
func (s *Session) Launch(ctx context.Context, lc LaunchContext) {
	if lc.IDParam != "" {
		quiz, err := s.fetcher.FetchQuiz(ctx, lc.IDParam)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.screen = ScreenInvalidLink
			return
		}
		s.beginPlay(quiz, true)
		return
	}

	if lc.VParam != "" {
		if quiz := share.DecodeQuiz(lc.VParam); quiz != nil {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.beginPlay(quiz, true)
			return
		}
	}
}

func (s *Session) beginPlay(quiz *model.Quiz, fromLink bool) {
	s.quiz = quiz
	s.fromLink = fromLink
	s.screen = ScreenQuiz
	s.index = introIndex
	s.selected = 0
	s.answered = false
	s.hintShown = false
	s.noteShown = false
	s.score = 0
	s.streak = 0
	s.feedback = ""
}

// --- setup wizard ---

// BeginSetup opens the wizard with a fresh draft: one empty question and a
// locally generated id that namespaces any image uploads made while editing.
func (s *Session) BeginSetup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen = ScreenSetup
	s.step = StepNames
	s.errs = nil
	s.draft = &model.Quiz{
		Questions: model.QuestionList{emptyQuestion()},
	}
	s.draft.ID = model.GenerateUUID()
}

func emptyQuestion() model.QuizQuestion {
	return model.QuizQuestion{
		ID:      model.GenerateUUID(),
		Options: []string{"", ""},
	}
}

func (s *Session) SetNames(partnerName, senderName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	s.draft.PartnerName = partnerName
	s.draft.SenderName = senderName
}

func (s *Session) SetFinalMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	s.draft.FinalMessage = message
}

func (s *Session) SetFinalImageURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	s.draft.FinalImageURL = url
}

// AddQuestion appends an empty question, up to the editor cap of ten.
func (s *Session) AddQuestion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil || len(s.draft.Questions) >= maxQuestions {
		return false
	}
	s.draft.Questions = append(s.draft.Questions, emptyQuestion())
	return true
}

// RemoveQuestion deletes a question; the last remaining one cannot go.
func (s *Session) RemoveQuestion(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil || len(s.draft.Questions) <= 1 || i < 0 || i >= len(s.draft.Questions) {
		return false
	}
	s.draft.Questions = append(s.draft.Questions[:i], s.draft.Questions[i+1:]...)
	return true
}

func (s *Session) SetQuestionText(i int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q := s.draftQuestion(i); q != nil {
		q.Question = text
	}
}

func (s *Session) SetQuestionHint(i int, hint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q := s.draftQuestion(i); q != nil {
		q.Hint = hint
	}
}

func (s *Session) SetQuestionLoveNote(i int, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q := s.draftQuestion(i); q != nil {
		q.LoveNote = note
	}
}

func (s *Session) SetQuestionImageURL(i int, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q := s.draftQuestion(i); q != nil {
		q.ImageURL = url
	}
}

func (s *Session) SetOptionText(i, opt int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.draftQuestion(i)
	if q == nil || opt < 0 || opt >= len(q.Options) {
		return
	}
	q.Options[opt] = text
}

// SetCorrectOption marks the right answer; out-of-range picks are refused so
// correctIndex can never leave the option bounds through editing.
func (s *Session) SetCorrectOption(i, opt int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.draftQuestion(i)
	if q == nil || opt < 0 || opt >= len(q.Options) {
		return false
	}
	q.CorrectIndex = opt
	return true
}

func (s *Session) AddOption(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.draftQuestion(i)
	if q == nil || len(q.Options) >= maxOptions {
		return false
	}
	q.Options = append(q.Options, "")
	return true
}

// RemoveOption drops an option, keeping at least two and clamping
// correctIndex back in bounds when the removed one was at or before it.
func (s *Session) RemoveOption(i, opt int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.draftQuestion(i)
	if q == nil || len(q.Options) <= minOptions || opt < 0 || opt >= len(q.Options) {
		return false
	}
	q.Options = append(q.Options[:opt], q.Options[opt+1:]...)
	if q.CorrectIndex >= len(q.Options) {
		q.CorrectIndex = len(q.Options) - 1
	}
	return true
}

func (s *Session) draftQuestion(i int) *model.QuizQuestion {
	if s.draft == nil || i < 0 || i >= len(s.draft.Questions) {
		return nil
	}
	return &s.draft.Questions[i]
}

// NextStep validates the current wizard step and advances on success; the
// last step completes setup and moves to preview. Validation failures are
// recorded on Errors for inline display.
func (s *Session) NextStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen != ScreenSetup || s.draft == nil {
		return false
	}

	s.errs = s.validateStep()
	if len(s.errs) > 0 {
		return false
	}

	switch s.step {
	case StepNames:
		s.step = StepQuestions
	case StepQuestions:
		s.step = StepFinalMessage
	case StepFinalMessage:
		s.quiz = s.draft.Clone()
		s.screen = ScreenPreview
	}
	return true
}

// PrevStep walks the wizard backwards; from the first step it returns to
// landing keeping the draft so nothing is lost.
func (s *Session) PrevStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen != ScreenSetup {
		return
	}

	s.errs = nil
	switch s.step {
	case StepFinalMessage:
		s.step = StepQuestions
	case StepQuestions:
		s.step = StepNames
	case StepNames:
		s.screen = ScreenLanding
	}
}

// validateStep checks only the current step's slice of the completeness
// predicate, so an error surfaces next to the step that caused it.
func (s *Session) validateStep() []string {
	placeholder := model.QuestionList{{ID: "x", Question: "x", Options: []string{"a", "b"}}}
	switch s.step {
	case StepNames:
		probe := &model.Quiz{
			PartnerName: s.draft.PartnerName,
			SenderName:  s.draft.SenderName,
			Questions:   placeholder,
		}
		return probe.Problems()
	case StepQuestions:
		probe := &model.Quiz{
			PartnerName: "x",
			SenderName:  "x",
			Questions:   s.draft.Questions,
		}
		return probe.Problems()
	default:
		return s.draft.Problems()
	}
}

// EditQuiz reopens the wizard from preview.
func (s *Session) EditQuiz() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen != ScreenPreview || s.draft == nil {
		return
	}
	s.screen = ScreenSetup
	s.step = StepNames
	s.errs = nil
}

// OfflineShareURL builds the v-parameter link for the previewed quiz:
// the degraded transport used when the record save is unavailable.
func (s *Session) OfflineShareURL(baseURL string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return ""
	}
	return share.BuildShareURL(baseURL, s.quiz)
}

// --- quiz play ---

// StartQuiz moves from preview into play (the creator trying their own
// quiz).
func (s *Session) StartQuiz() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen != ScreenPreview || s.quiz == nil {
		return
	}
	s.beginPlay(s.quiz, false)
}

// Begin leaves the intro card for the first question.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen == ScreenQuiz && s.index == introIndex {
		s.index = 0
	}
}

// SelectOption answers the current question. Repeat selections after an
// answer are ignored. Score and streak feed only the feedback line and the
// final count handed to the reveal.
func (s *Session) SelectOption(opt int) (correct bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.currentQuestion()
	if q == nil || s.answered || opt < 0 || opt >= len(q.Options) {
		return false, false
	}

	s.selected = opt
	s.answered = true
	s.hintShown = false

	if opt == q.CorrectIndex {
		s.score++
		s.streak++
		s.feedback = pickMessage(s.rng, correctMessages, s.lastright)
		s.lastright = s.feedback
		return true, true
	}

	s.streak = 0
	s.feedback = pickMessage(s.rng, incorrectMessages, s.lastwrong)
	s.lastwrong = s.feedback
	return false, true
}

// ShowHint reveals the hint, available until the question is answered.
func (s *Session) ShowHint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.currentQuestion()
	if q == nil || q.Hint == "" || s.answered {
		return false
	}
	s.hintShown = true
	return true
}

// Next advances after an answer: first through the love-note interlude when
// the question has one, then to the next question, and past the last
// question into the final reveal.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.currentQuestion()
	if q == nil || !s.answered {
		return
	}

	if q.LoveNote != "" && !s.noteShown {
		s.noteShown = true
		return
	}

	if s.index+1 >= len(s.quiz.Questions) {
		s.completeQuiz()
		return
	}

	s.index++
	s.answered = false
	s.noteShown = false
	s.hintShown = false
	s.feedback = ""
}

func (s *Session) currentQuestion() *model.QuizQuestion {
	if s.screen != ScreenQuiz || s.quiz == nil || s.index < 0 || s.index >= len(s.quiz.Questions) {
		return nil
	}
	return &s.quiz.Questions[s.index]
}

// --- final reveal ---

func (s *Session) completeQuiz() {
	s.screen = ScreenFinalReveal
	s.stage = StageScore
	s.finalScore = s.score
	s.response = ""
	s.memories = s.quiz.Memories()
	s.visibleMemories = 0

	s.timer(scoreRevealDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.screen == ScreenFinalReveal && s.stage == StageScore {
			s.stage = StageEnvelope
		}
	})
}

// OpenEnvelope reveals the big question.
func (s *Session) OpenEnvelope() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen == ScreenFinalReveal && s.stage == StageEnvelope {
		s.stage = StageQuestion
	}
}

// Respond records the yes/no answer to the proposal.
func (s *Session) Respond(yes bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen != ScreenFinalReveal || s.stage != StageQuestion {
		return
	}
	if yes {
		s.response = "yes"
	} else {
		s.response = "no"
	}
	s.stage = StageResponse
}

// ShowMemories opens the memory wall; its cards appear one per interval
// until all are visible.
func (s *Session) ShowMemories() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen != ScreenFinalReveal || s.stage != StageResponse || len(s.memories) == 0 {
		return
	}
	s.stage = StageMemoryWall
	s.visibleMemories = 0
	s.scheduleMemoryReveal()
}

// scheduleMemoryReveal arms the next tick; callers hold the lock.
func (s *Session) scheduleMemoryReveal() {
	s.timer(memoryRevealInterval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.screen != ScreenFinalReveal || s.stage != StageMemoryWall {
			return
		}
		if s.visibleMemories < len(s.memories) {
			s.visibleMemories++
		}
		if s.visibleMemories < len(s.memories) {
			s.scheduleMemoryReveal()
		}
	})
}

// Restart resets everything back to landing; also the single recovery
// action for an invalid link.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen = ScreenLanding
	s.quiz = nil
	s.draft = nil
	s.errs = nil
	s.fromLink = false
	s.index = introIndex
	s.answered = false
	s.score = 0
	s.streak = 0
	s.finalScore = 0
	s.response = ""
	s.memories = nil
	s.visibleMemories = 0
}

// --- accessors ---

func (s *Session) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

func (s *Session) Step() SetupStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errs...)
}

func (s *Session) Quiz() *model.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

func (s *Session) Draft() *model.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) QuestionIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *Session) Streak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak
}

func (s *Session) Feedback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

func (s *Session) HintShown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hintShown
}

func (s *Session) NoteShown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noteShown
}

// FromLink reports whether the current play started from a share link, which
// is what decides whether the reveal offers a "make your own" call to action.
func (s *Session) FromLink() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fromLink
}

func (s *Session) Stage() RevealStage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

func (s *Session) FinalScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalScore
}

func (s *Session) Response() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response
}

func (s *Session) VisibleMemories() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleMemories
}

func (s *Session) Memories() []model.QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.QuizQuestion(nil), s.memories...)
}
