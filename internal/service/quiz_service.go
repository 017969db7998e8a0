package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"valentine_quiz_backend/internal/model"
	"valentine_quiz_backend/internal/util"
	"valentine_quiz_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// QuizRepository is the record half of the quiz store.
type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByID(id string) (*model.Quiz, error)
}

const quizCacheKeyPrefix = "quiz:"

// slotPattern constrains the incremental-upload slot: "final" for the reveal
// image, otherwise a question id. Also keeps blob paths free of separators.
var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type QuizService struct {
	repo      QuizRepository
	storage   StorageProvider
	images    *ImageService
	cache     *redis.Client
	cacheTTL  time.Duration
	inlineCap int64
}

func NewQuizService(repo QuizRepository, storage StorageProvider, images *ImageService, cache *redis.Client, cacheTTL time.Duration, inlineCap int64) *QuizService {
	return &QuizService{
		repo:      repo,
		storage:   storage,
		images:    images,
		cache:     cache,
		cacheTTL:  cacheTTL,
		inlineCap: inlineCap,
	}
}

// CreateQuiz persists a complete quiz and returns its id.
//
// Inline images arriving as data URLs are decoded, size-checked and written
// to the blob store under paths namespaced by the quiz id; the fields are
// rewritten to the resulting public URLs. An inline image that fails to
// decode or is over the cap is dropped silently rather than failing the
// whole create. A caller-supplied well-formed id is reused so a retried
// submission targets the same record; anything else gets a fresh UUID.
func (s *QuizService) CreateQuiz(ctx context.Context, quiz *model.Quiz) (string, error) {
	if problems := quiz.Problems(); len(problems) > 0 {
		return "", fmt.Errorf("%w: %s", util.ErrQuizIncomplete, strings.Join(problems, "; "))
	}

	record := quiz.Clone()
	if !model.IsValidID(record.ID) {
		record.ID = model.GenerateUUID()
	}

	for i := range record.Questions {
		record.Questions[i].ImageURL = s.storeInlineImage(ctx,
			record.Questions[i].ImageURL,
			fmt.Sprintf("%s/q-%d", record.ID, i))
	}
	record.FinalImageURL = s.storeInlineImage(ctx, record.FinalImageURL, record.ID+"/final")

	if err := s.repo.Create(record); err != nil {
		return "", fmt.Errorf("save quiz: %w", err)
	}

	return record.ID, nil
}

// storeInlineImage uploads a data-URL payload and returns the blob URL.
// Non-data URLs pass through untouched; a bad or oversized payload clears
// the field.
func (s *QuizService) storeInlineImage(ctx context.Context, imageURL, pathPrefix string) string {
	if imageURL == "" || !util.IsDataURL(imageURL) {
		return imageURL
	}

	inline, err := util.ParseImageDataURL(imageURL, s.inlineCap)
	if err != nil {
		logger.Log.Warn("dropping inline image",
			zap.String("slot", pathPrefix),
			zap.Error(err))
		return ""
	}

	path := pathPrefix + "." + inline.Ext
	url, err := s.storage.Upload(ctx, path, bytes.NewReader(inline.Bytes), int64(len(inline.Bytes)), inline.ContentType)
	if err != nil {
		logger.Log.Warn("inline image upload failed",
			zap.String("path", path),
			zap.Error(err))
		return ""
	}

	return url
}

// FetchQuiz returns the persisted quiz by exact id. A missing row, a
// malformed id and a backend fault all collapse to ErrQuizNotFound so the
// caller cannot probe which ids exist.
func (s *QuizService) FetchQuiz(ctx context.Context, id string) (*model.Quiz, error) {
	if id == "" || !model.IsValidID(id) {
		return nil, util.ErrQuizNotFound
	}

	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	quiz, err := s.repo.FindByID(id)
	if err != nil {
		logger.Log.Debug("quiz lookup miss", zap.String("id", id), zap.Error(err))
		return nil, util.ErrQuizNotFound
	}

	s.cachePut(ctx, quiz)
	return quiz, nil
}

// UploadQuizImage handles the incremental editing path: one image per
// request, stored under the draft's id and the slot's stable name so a
// re-upload overwrites rather than orphans.
func (s *QuizService) UploadQuizImage(ctx context.Context, quizID, slot string, file *multipart.FileHeader) (string, error) {
	if !model.IsValidID(quizID) {
		return "", fmt.Errorf("%w: bad quiz id", util.ErrUnsupportedImage)
	}
	if !slotPattern.MatchString(slot) {
		return "", fmt.Errorf("%w: bad slot", util.ErrUnsupportedImage)
	}

	prepared, err := s.images.Prepare(file)
	if err != nil {
		return "", err
	}

	name := "question-" + slot
	if slot == "final" {
		name = "final"
	}
	path := fmt.Sprintf("%s/%s.%s", quizID, name, prepared.Ext)

	return s.storage.Upload(ctx, path, prepared.Reader, prepared.Size, prepared.ContentType)
}

func (s *QuizService) cacheGet(ctx context.Context, id string) *model.Quiz {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, quizCacheKeyPrefix+id).Bytes()
	if err != nil {
		return nil
	}

	var quiz model.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil
	}
	quiz.ID = id
	return &quiz
}

func (s *QuizService) cachePut(ctx context.Context, quiz *model.Quiz) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, quizCacheKeyPrefix+quiz.ID, raw, s.cacheTTL).Err(); err != nil {
		logger.Log.Debug("quiz cache write failed", zap.Error(err))
	}
}
