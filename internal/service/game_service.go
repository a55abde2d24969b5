package service

import (
	"errors"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
	"github.com/yourusername/wordduel-api/internal/handler/dto"
	"github.com/yourusername/wordduel-api/internal/metrics"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

const (
	defaultGamePageSize = 10
	maxGamePageSize     = 100
)

// GameService - движок игровых сессий.
// Сервис не хранит состояние между запросами: каждая операция читает игру,
// проверяет правила и пишет условным обновлением по версии строки.
type GameService struct {
	gameRepo    repository.GameRepository
	dictRepo    repository.DictionaryRepository
	wordRepo    repository.WordRepository
	userRepo    repository.UserRepository
	userService *UserService
	metrics     *metrics.Metrics

	shuffle entity.Shuffler
	now     func() time.Time
}

// NewGameService создает новый сервис игр
func NewGameService(
	gameRepo repository.GameRepository,
	dictRepo repository.DictionaryRepository,
	wordRepo repository.WordRepository,
	userRepo repository.UserRepository,
	userService *UserService,
	m *metrics.Metrics,
) *GameService {
	return &GameService{
		gameRepo:    gameRepo,
		dictRepo:    dictRepo,
		wordRepo:    wordRepo,
		userRepo:    userRepo,
		userService: userService,
		metrics:     m,
		shuffle:     rand.Shuffle,
		now:         time.Now,
	}
}

func (s *GameService) loadGame(op string, gameID uint) (*entity.Game, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, lookupFailure(op, err, ErrGameNotFound)
	}
	return game, nil
}

// Create создает открытую игру по словарю.
// Список слов - случайная перестановка живых слов словаря на момент создания.
func (s *GameService) Create(creatorID, dictionaryID uint) (*entity.Game, error) {
	if _, err := s.dictRepo.GetActiveByID(dictionaryID); err != nil {
		return nil, lookupFailure("create game", err, ErrDictionaryNotFound)
	}

	wordIDs, err := s.wordRepo.ListActiveIDsByDictionary(dictionaryID)
	if err != nil {
		return nil, storeFailure("create game", err)
	}
	if len(wordIDs) == 0 {
		return nil, ErrEmptyDictionary
	}

	game := &entity.Game{
		DictionaryID: dictionaryID,
		OwnerID:      creatorID,
		Participants: entity.IDList{creatorID},
		WordList:     entity.IDList(wordIDs).Shuffled(s.shuffle),
		Answers:      []entity.GameAnswer{},
		Status:       entity.GameStatusOpen,
		Version:      1,
	}
	if err := s.gameRepo.Create(game); err != nil {
		return nil, storeFailure("create game", err)
	}

	s.metrics.IncGamesCreated()
	log.Printf("[GameService] Игра #%d создана пользователем ID=%d, словарь #%d, слов: %d",
		game.ID, creatorID, dictionaryID, len(game.WordList))
	return game, nil
}

// Join добавляет пользователя в открытую игру и заново перемешивает порядок ходов
func (s *GameService) Join(gameID, userID uint) error {
	game, err := s.loadGame("join game", gameID)
	if err != nil {
		return err
	}

	if !game.IsOpen() || len(game.Answers) > 0 {
		return ErrInvalidState
	}
	if game.IsParticipant(userID) {
		return ErrAlreadyJoined
	}

	participants := append(game.Participants.Clone(), userID).Shuffled(s.shuffle)
	if err := s.gameRepo.UpdateParticipants(game.ID, game.Version, participants); err != nil {
		return s.mutationFailure("join", game.ID, err)
	}
	return nil
}

// Leave удаляет участника из открытой игры, сохраняя порядок остальных
func (s *GameService) Leave(gameID, userID uint) error {
	game, err := s.loadGame("leave game", gameID)
	if err != nil {
		return err
	}

	if !game.IsOpen() {
		return ErrInvalidState
	}
	if game.IsOwner(userID) {
		return ErrOwnerCannotLeave
	}
	if !game.IsParticipant(userID) {
		return ErrNotMember
	}

	if err := s.gameRepo.UpdateParticipants(game.ID, game.Version, game.Participants.Without(userID)); err != nil {
		return s.mutationFailure("leave", game.ID, err)
	}
	return nil
}

// Start переводит игру open → in_progress. Запустить игру может только создатель.
func (s *GameService) Start(gameID, userID uint) error {
	game, err := s.loadGame("start game", gameID)
	if err != nil {
		return err
	}

	if !game.IsOwner(userID) {
		return ErrNotOwner
	}
	if !game.IsOpen() {
		return ErrInvalidState
	}

	if err := s.gameRepo.Start(game.ID, game.Version, s.now()); err != nil {
		return s.mutationFailure("start", game.ID, err)
	}

	s.metrics.IncGamesStarted()
	log.Printf("[GameService] Игра #%d запущена, участников: %d", game.ID, len(game.Participants))
	return nil
}

// SubmitAnswer принимает ответ текущего игрока на текущее слово.
// Из двух параллельных ответов на один ход успешен только один, второй получает ErrConcurrentUpdate.
func (s *GameService) SubmitAnswer(gameID, userID, wordID uint, answer string) (*dto.AnswerResultResponse, error) {
	// В журнал попадает нормализованный ответ: без пробелов по краям и в нижнем регистре
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return nil, validationError("Answer required")
	}

	game, err := s.loadGame("submit answer", gameID)
	if err != nil {
		return nil, err
	}

	if !game.IsParticipant(userID) {
		return nil, ErrNotMember
	}
	if !game.IsInProgress() {
		return nil, ErrInvalidState
	}
	turn, ok := game.ExpectedTurn()
	if !ok {
		return nil, ErrGameComplete
	}
	if turn.UserID != userID {
		return nil, ErrNotYourTurn
	}
	if turn.WordID != wordID {
		return nil, ErrWrongWord
	}

	word, err := s.wordRepo.GetActiveByID(wordID)
	if err != nil {
		return nil, lookupFailure("submit answer", err, ErrWordNotFound)
	}

	correct := word.IsCorrect(answer)
	record := game.AppendAnswer(userID, wordID, answer, correct)
	if err := s.gameRepo.AppendAnswer(game.ID, game.Version, &record); err != nil {
		return nil, s.mutationFailure("answer", game.ID, err)
	}
	s.metrics.IncAnswer(correct)

	result := &dto.AnswerResultResponse{
		Correct:  correct,
		Expected: word.Translation,
	}
	if next, ok := game.ExpectedTurn(); ok {
		result.NextTurn = &next.UserID
		result.NextWord = s.liveWord(next.WordID)
	}
	return result, nil
}

// End завершает игру и начисляет каждому участнику correct - wrong к рейтингу.
// Повторный вызов на завершённой игре ничего не меняет и возвращает тот же итог.
func (s *GameService) End(gameID, userID uint) (*dto.EndGameResponse, error) {
	game, err := s.loadGame("end game", gameID)
	if err != nil {
		return nil, err
	}

	if !game.IsParticipant(userID) {
		return nil, ErrNotMember
	}

	deltas := game.PerfDeltas()
	if game.IsFinished() {
		return &dto.EndGameResponse{Perf: deltas, AlreadyFinished: true}, nil
	}

	if err := s.gameRepo.Finish(game.ID, game.Version, s.now(), deltas); err != nil {
		return nil, s.mutationFailure("end", game.ID, err)
	}

	s.metrics.IncGamesFinished()
	if s.userService != nil {
		s.userService.InvalidateLeaderboard()
	}
	log.Printf("[GameService] Игра #%d завершена пользователем ID=%d, ответов: %d/%d",
		game.ID, userID, len(game.Answers), len(game.WordList))

	return &dto.EndGameResponse{Perf: deltas}, nil
}

// GetDetail возвращает полное представление игры.
// Слова загружаются вместе с удалёнными, чтобы история игры не терялась.
func (s *GameService) GetDetail(gameID, requesterID uint) (*dto.GameDetailResponse, error) {
	game, err := s.loadGame("get game", gameID)
	if err != nil {
		return nil, err
	}

	dictName := ""
	dict, err := s.dictRepo.GetByID(game.DictionaryID)
	switch {
	case err == nil:
		dictName = dict.Name
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, storeFailure("get game", err)
	}

	users, err := s.usersByID(append(game.Participants.Clone(), game.OwnerID))
	if err != nil {
		return nil, storeFailure("get game", err)
	}

	wordRows, err := s.wordRepo.GetByIDs(game.WordList)
	if err != nil {
		return nil, storeFailure("get game", err)
	}
	wordsByID := make(map[uint]*entity.Word, len(wordRows))
	for i := range wordRows {
		wordsByID[wordRows[i].ID] = &wordRows[i]
	}
	words := make([]dto.WordResponse, 0, len(game.WordList))
	for _, id := range game.WordList {
		if w, ok := wordsByID[id]; ok {
			words = append(words, dto.NewWordResponse(w))
		}
	}

	detail := &dto.GameDetailResponse{
		ID:             game.ID,
		DictionaryID:   game.DictionaryID,
		DictionaryName: dictName,
		Users:          userRefs(game.Participants, users),
		Owner:          userRef(game.OwnerID, users),
		Words:          words,
		Answers:        dto.NewAnswerListResponse(game.Answers),
		Perf:           game.Tally(),
		Status:         game.Status,
		CurrentIndex:   game.TurnIndex(),
		IsJoined:       game.IsParticipant(requesterID),
		StartedAt:      game.StartedAt,
		FinishedAt:     game.FinishedAt,
	}
	if next, ok := game.ExpectedTurn(); ok {
		nextUser := next.UserID
		detail.NextTurn = &nextUser
		if w, ok := wordsByID[next.WordID]; ok && !w.Deleted {
			resp := dto.NewWordResponse(w)
			detail.NextWord = &resp
		}
	}
	return detail, nil
}

// List возвращает страницу игр, новые первыми
func (s *GameService) List(requesterID uint, filters repository.GameFilters, page, pageSize int) (*dto.PaginatedGameListResponse, error) {
	switch filters.Status {
	case "", entity.GameStatusOpen, entity.GameStatusInProgress, entity.GameStatusFinished:
	default:
		return nil, validationError("Unknown game status filter")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultGamePageSize
	} else if pageSize > maxGamePageSize {
		pageSize = maxGamePageSize
	}

	games, total, err := s.gameRepo.List(filters, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, storeFailure("list games", err)
	}

	var userIDs, dictIDs []uint
	for _, g := range games {
		userIDs = append(userIDs, g.Participants...)
		userIDs = append(userIDs, g.OwnerID)
		dictIDs = append(dictIDs, g.DictionaryID)
	}
	users, err := s.usersByID(userIDs)
	if err != nil {
		return nil, storeFailure("list games", err)
	}
	dicts, err := s.dictRepo.GetByIDs(dictIDs)
	if err != nil {
		return nil, storeFailure("list games", err)
	}
	dictNames := make(map[uint]string, len(dicts))
	for _, d := range dicts {
		dictNames[d.ID] = d.Name
	}

	summaries := make([]dto.GameSummaryResponse, len(games))
	for i, g := range games {
		summaries[i] = dto.GameSummaryResponse{
			ID:             g.ID,
			DictionaryID:   g.DictionaryID,
			DictionaryName: dictNames[g.DictionaryID],
			Users:          userRefs(g.Participants, users),
			Owner:          userRef(g.OwnerID, users),
			Status:         g.Status,
			WordCount:      len(g.WordList),
			IsJoined:       g.IsParticipant(requesterID),
			CreatedAt:      g.CreatedAt,
		}
	}

	return &dto.PaginatedGameListResponse{
		Games:   summaries,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}, nil
}

// liveWord возвращает следующее слово, если оно не удалено
func (s *GameService) liveWord(wordID uint) *dto.WordResponse {
	word, err := s.wordRepo.GetActiveByID(wordID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[GameService] Не удалось загрузить слово #%d: %v", wordID, err)
		}
		return nil
	}
	resp := dto.NewWordResponse(word)
	return &resp
}

func (s *GameService) usersByID(ids []uint) (map[uint]*entity.User, error) {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	rows, err := s.userRepo.GetByIDs(unique)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]*entity.User, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func userRef(id uint, users map[uint]*entity.User) *dto.UserRef {
	u, ok := users[id]
	if !ok {
		return nil
	}
	return &dto.UserRef{ID: u.ID, Username: u.Username}
}

func userRefs(ids entity.IDList, users map[uint]*entity.User) []dto.UserRef {
	out := make([]dto.UserRef, 0, len(ids))
	for _, id := range ids {
		if ref := userRef(id, users); ref != nil {
			out = append(out, *ref)
		}
	}
	return out
}
