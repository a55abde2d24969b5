package entity

import (
	"time"
)

// Статусы игры
const (
	GameStatusOpen       = "open"
	GameStatusInProgress = "in_progress"
	GameStatusFinished   = "finished"
)

// Game - многопользовательская партия по словарю.
// Ход i отвечает participants[i mod len(participants)] на слово word_list[i],
// где i = len(Answers).
type Game struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	DictionaryID uint         `gorm:"not null;index" json:"dictionary_id"`
	OwnerID      uint         `gorm:"not null;index" json:"owner_id"`
	Participants IDList       `gorm:"type:bigint[];not null" json:"participants"`
	WordList     IDList       `gorm:"type:bigint[];not null" json:"word_list"`
	Answers      []GameAnswer `gorm:"foreignKey:GameID" json:"answers"`
	Status       string       `gorm:"size:20;not null;default:'open';index" json:"status"`
	Version      int64        `gorm:"not null;default:1" json:"version"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Game) TableName() string {
	return "games"
}

// GameAnswer - запись журнала ответов. Журнал только дополняется.
type GameAnswer struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_game_answers_turn" json:"-"`
	TurnIndex int       `gorm:"not null;uniqueIndex:idx_game_answers_turn" json:"turn_index"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	WordID    uint      `gorm:"not null" json:"word_id"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Correct   bool      `gorm:"not null" json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (GameAnswer) TableName() string {
	return "game_answers"
}

// Turn описывает ожидаемый ход: кто отвечает и на какое слово
type Turn struct {
	Index  int
	UserID uint
	WordID uint
}

// PlayerTally - счёт игрока по журналу ответов
type PlayerTally struct {
	Correct int   `json:"correct"`
	Wrong   int   `json:"wrong"`
	Perf    int64 `json:"perf"`
}

// IsOpen проверяет, принимает ли игра участников
func (g *Game) IsOpen() bool {
	return g.Status == GameStatusOpen
}

// IsInProgress проверяет, идёт ли игра
func (g *Game) IsInProgress() bool {
	return g.Status == GameStatusInProgress
}

// IsFinished проверяет, завершена ли игра
func (g *Game) IsFinished() bool {
	return g.Status == GameStatusFinished
}

// IsOwner проверяет, является ли пользователь создателем игры
func (g *Game) IsOwner(userID uint) bool {
	return g.OwnerID == userID
}

// IsParticipant проверяет, входит ли пользователь в игру
func (g *Game) IsParticipant(userID uint) bool {
	return g.Participants.Contains(userID)
}

// TurnIndex возвращает индекс текущего хода (длину журнала ответов)
func (g *Game) TurnIndex() int {
	return len(g.Answers)
}

// IsComplete сообщает, что на все слова уже ответили
func (g *Game) IsComplete() bool {
	return g.TurnIndex() >= len(g.WordList)
}

// TurnAt возвращает ход с индексом i. false, если такого хода нет.
func (g *Game) TurnAt(i int) (Turn, bool) {
	if i < 0 || i >= len(g.WordList) || len(g.Participants) == 0 {
		return Turn{}, false
	}
	return Turn{
		Index:  i,
		UserID: g.Participants[i%len(g.Participants)],
		WordID: g.WordList[i],
	}, true
}

// ExpectedTurn возвращает следующий ожидаемый ход.
// Используется и при приёме ответа, и в детальном представлении игры.
func (g *Game) ExpectedTurn() (Turn, bool) {
	return g.TurnAt(g.TurnIndex())
}

// Tally считает правильные и неправильные ответы каждого участника.
// Участники без ответов присутствуют с нулевым счётом, ответы не-участников не учитываются.
func (g *Game) Tally() map[uint]PlayerTally {
	tally := make(map[uint]PlayerTally, len(g.Participants))
	for _, uid := range g.Participants {
		tally[uid] = PlayerTally{}
	}
	for _, a := range g.Answers {
		t, ok := tally[a.UserID]
		if !ok {
			continue
		}
		if a.Correct {
			t.Correct++
		} else {
			t.Wrong++
		}
		t.Perf = int64(t.Correct - t.Wrong)
		tally[a.UserID] = t
	}
	return tally
}

// PerfDeltas возвращает изменение рейтинга каждого участника: correct - wrong
func (g *Game) PerfDeltas() map[uint]int64 {
	tally := g.Tally()
	deltas := make(map[uint]int64, len(tally))
	for uid, t := range tally {
		deltas[uid] = t.Perf
	}
	return deltas
}

// AppendAnswer добавляет ответ в журнал в памяти и возвращает его
func (g *Game) AppendAnswer(userID, wordID uint, answer string, correct bool) GameAnswer {
	a := GameAnswer{
		GameID:    g.ID,
		TurnIndex: g.TurnIndex(),
		UserID:    userID,
		WordID:    wordID,
		Answer:    answer,
		Correct:   correct,
	}
	g.Answers = append(g.Answers, a)
	return a
}
