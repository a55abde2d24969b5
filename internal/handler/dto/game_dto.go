package dto

import (
	"time"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
)

// WordResponse - слово словаря
type WordResponse struct {
	ID          uint   `json:"id"`
	Term        string `json:"term"`
	Translation string `json:"translation"`
	// Deleted: слово удалено из словаря, но осталось в истории игры
	Deleted bool `json:"deleted"`
}

// AnswerResponse - запись журнала ответов
type AnswerResponse struct {
	TurnIndex int    `json:"turn_index"`
	UserID    uint   `json:"user_id"`
	WordID    uint   `json:"word_id"`
	Answer    string `json:"answer"`
	Correct   bool   `json:"correct"`
}

// GameSummaryResponse - строка списка игр
type GameSummaryResponse struct {
	ID             uint      `json:"id"`
	DictionaryID   uint      `json:"dictionary_id"`
	DictionaryName string    `json:"dictionary_name"`
	Users          []UserRef `json:"users"`
	Owner          *UserRef  `json:"owner"`
	Status         string    `json:"status"`
	WordCount      int       `json:"word_count"`
	IsJoined       bool      `json:"is_joined"`
	CreatedAt      time.Time `json:"created_at"`
}

// PaginatedGameListResponse - страница списка игр
type PaginatedGameListResponse struct {
	Games   []GameSummaryResponse `json:"games"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

// GameDetailResponse - полное представление игры.
// NextTurn/NextWord вычисляются тем же правилом хода, что и приём ответа.
type GameDetailResponse struct {
	ID             uint                        `json:"id"`
	DictionaryID   uint                        `json:"dictionary_id"`
	DictionaryName string                      `json:"dictionary_name"`
	Users          []UserRef                   `json:"users"`
	Owner          *UserRef                    `json:"owner"`
	Words          []WordResponse              `json:"words"`
	Answers        []AnswerResponse            `json:"answers"`
	Perf           map[uint]entity.PlayerTally `json:"perf"`
	Status         string                      `json:"status"`
	NextTurn       *uint                       `json:"next_turn"`
	NextWord       *WordResponse               `json:"next_word"`
	CurrentIndex   int                         `json:"current_index"`
	IsJoined       bool                        `json:"is_joined"`
	StartedAt      *time.Time                  `json:"started_at,omitempty"`
	FinishedAt     *time.Time                  `json:"finished_at,omitempty"`
}

// AnswerResultResponse - результат приёма ответа
type AnswerResultResponse struct {
	Correct  bool          `json:"correct"`
	Expected string        `json:"expected"`
	NextTurn *uint         `json:"next_turn"`
	NextWord *WordResponse `json:"next_word"`
}

// EndGameResponse - итог завершения игры
type EndGameResponse struct {
	Perf            map[uint]int64 `json:"perf"`
	AlreadyFinished bool           `json:"already_finished"`
}

// NewWordResponse создает DTO слова
func NewWordResponse(w *entity.Word) WordResponse {
	return WordResponse{ID: w.ID, Term: w.Term, Translation: w.Translation, Deleted: w.Deleted}
}

// NewWordListResponse создает DTO списка слов
func NewWordListResponse(words []entity.Word) []WordResponse {
	out := make([]WordResponse, len(words))
	for i := range words {
		out[i] = NewWordResponse(&words[i])
	}
	return out
}

// NewAnswerListResponse создает DTO журнала ответов
func NewAnswerListResponse(answers []entity.GameAnswer) []AnswerResponse {
	out := make([]AnswerResponse, len(answers))
	for i, a := range answers {
		out[i] = AnswerResponse{
			TurnIndex: a.TurnIndex,
			UserID:    a.UserID,
			WordID:    a.WordID,
			Answer:    a.Answer,
			Correct:   a.Correct,
		}
	}
	return out
}
