package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/wordduel-api/internal/domain/repository"
	"github.com/yourusername/wordduel-api/internal/service"
)

// GameHandler обрабатывает запросы игровых сессий
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler создает новый обработчик игр
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// CreateGameRequest - словарь новой игры
type CreateGameRequest struct {
	DictID uint `json:"dict_id" binding:"required"`
}

// SubmitAnswerRequest - ответ на текущее слово
type SubmitAnswerRequest struct {
	WordID uint   `json:"word_id" binding:"required"`
	Answer string `json:"answer" binding:"required"`
}

// CreateGame создает открытую игру, создатель становится владельцем и первым участником
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	game, err := h.gameService.Create(currentUser(c).ID, req.DictID)
	if err != nil {
		respondError(c, "GameHandler", err)
		return
	}
	respondOK(c, http.StatusCreated, "Game created", gin.H{"game_id": game.ID})
}

// ListGames возвращает игры, новые первыми.
// ?status= фильтрует по статусу, ?mine=true оставляет игры текущего пользователя.
func (h *GameHandler) ListGames(c *gin.Context) {
	user := currentUser(c)
	page, pageSize := pagination(c)

	filters := repository.GameFilters{Status: c.Query("status")}
	if mine, _ := strconv.ParseBool(c.DefaultQuery("mine", "false")); mine {
		filters.ParticipantID = user.ID
	}

	games, err := h.gameService.List(user.ID, filters, page, pageSize)
	if err != nil {
		respondError(c, "GameHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{
		"games":    games.Games,
		"total":    games.Total,
		"page":     games.Page,
		"per_page": games.PerPage,
	})
}

// GetGame возвращает полное представление игры
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	detail, err := h.gameService.GetDetail(gameID, currentUser(c).ID)
	if err != nil {
		respondError(c, "GameHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"game": detail})
}

// JoinGame добавляет текущего пользователя в игру
func (h *GameHandler) JoinGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	if err := h.gameService.Join(gameID, currentUser(c).ID); err != nil {
		respondError(c, "GameHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Joined game", nil)
}

// LeaveGame убирает текущего пользователя из игры
func (h *GameHandler) LeaveGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	if err := h.gameService.Leave(gameID, currentUser(c).ID); err != nil {
		respondError(c, "GameHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Left game", nil)
}

// StartGame запускает игру
func (h *GameHandler) StartGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	if err := h.gameService.Start(gameID, currentUser(c).ID); err != nil {
		respondError(c, "GameHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Game started", nil)
}

// SubmitAnswer принимает ответ текущего игрока
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	var req SubmitAnswerRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.gameService.SubmitAnswer(gameID, currentUser(c).ID, req.WordID, req.Answer)
	if err != nil {
		respondError(c, "GameHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Answer recorded", gin.H{
		"correct":   result.Correct,
		"expected":  result.Expected,
		"next_turn": result.NextTurn,
		"next_word": result.NextWord,
	})
}

// EndGame завершает игру и начисляет рейтинг. Повторный вызов безопасен.
func (h *GameHandler) EndGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	result, err := h.gameService.End(gameID, currentUser(c).ID)
	if err != nil {
		respondError(c, "GameHandler", err)
		return
	}

	message := "Game ended and ratings updated"
	if result.AlreadyFinished {
		message = "Game already finished"
	}
	respondOK(c, http.StatusOK, message, gin.H{
		"perf":             result.Perf,
		"already_finished": result.AlreadyFinished,
	})
}
