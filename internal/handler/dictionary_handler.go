package handler

import (
	"bytes"
	"log"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/wordduel-api/internal/handler/dto"
	"github.com/yourusername/wordduel-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DictionaryHandler обрабатывает запросы к словарям и словам
type DictionaryHandler struct {
	dictService *service.DictionaryService
}

// NewDictionaryHandler создает новый обработчик словарей
func NewDictionaryHandler(dictService *service.DictionaryService) *DictionaryHandler {
	return &DictionaryHandler{dictService: dictService}
}

// DictionaryRequest - имя словаря
type DictionaryRequest struct {
	Name string `json:"name" binding:"required"`
}

// WordRequest - пара терминов
type WordRequest struct {
	Term        string `json:"term" binding:"required"`
	Translation string `json:"translation" binding:"required"`
}

// ImportCSVRequest - содержимое CSV строкой, как его отправляет страница словаря
type ImportCSVRequest struct {
	CSV string `json:"csv" binding:"required"`
}

// ListDictionaries возвращает живые словари с количеством слов
func (h *DictionaryHandler) ListDictionaries(c *gin.Context) {
	dicts, err := h.dictService.List()
	if err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"dicts": dicts})
}

// CreateDictionary создает словарь
func (h *DictionaryHandler) CreateDictionary(c *gin.Context) {
	var req DictionaryRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	dict, err := h.dictService.Create(req.Name)
	if err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusCreated, "Dictionary created", gin.H{"dict_id": dict.ID})
}

// RenameDictionary переименовывает словарь
func (h *DictionaryHandler) RenameDictionary(c *gin.Context) {
	dictID := c.MustGet("dictID").(uint)

	var req DictionaryRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.dictService.Rename(dictID, req.Name); err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Dictionary updated", nil)
}

// DeleteDictionary мягко удаляет словарь и его слова
func (h *DictionaryHandler) DeleteDictionary(c *gin.Context) {
	dictID := c.MustGet("dictID").(uint)

	if err := h.dictService.Delete(dictID); err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Dictionary and its words deleted", nil)
}

// ListWords возвращает живые слова словаря
func (h *DictionaryHandler) ListWords(c *gin.Context) {
	dictID := c.MustGet("dictID").(uint)

	words, err := h.dictService.ListWords(dictID)
	if err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"words": dto.NewWordListResponse(words)})
}

// AddWord добавляет слово
func (h *DictionaryHandler) AddWord(c *gin.Context) {
	dictID := c.MustGet("dictID").(uint)

	var req WordRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	word, err := h.dictService.AddWord(dictID, req.Term, req.Translation)
	if err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusCreated, "Word created", gin.H{"word_id": word.ID})
}

// UpdateWord меняет слово
func (h *DictionaryHandler) UpdateWord(c *gin.Context) {
	wordID := c.MustGet("wordID").(uint)

	var req WordRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.dictService.UpdateWord(wordID, req.Term, req.Translation); err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Word updated", nil)
}

// DeleteWord мягко удаляет слово
func (h *DictionaryHandler) DeleteWord(c *gin.Context) {
	wordID := c.MustGet("wordID").(uint)

	if err := h.dictService.DeleteWord(wordID); err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Word deleted", nil)
}

// ImportCSV добавляет слова из CSV
func (h *DictionaryHandler) ImportCSV(c *gin.Context) {
	dictID := c.MustGet("dictID").(uint)

	var req ImportCSVRequest
	if err := bindJSON(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	count, err := h.dictService.ImportCSV(dictID, req.CSV)
	if err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Words imported", gin.H{"count": count})
}

// ExportCSV отдаёт CSV словаря внутри JSON
func (h *DictionaryHandler) ExportCSV(c *gin.Context) {
	dictID := c.MustGet("dictID").(uint)

	filename, content, err := h.dictService.ExportCSV(dictID)
	if err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"filename": filename, "content": content})
}

// ExportXLSX отдаёт книгу Excel как вложение
func (h *DictionaryHandler) ExportXLSX(c *gin.Context) {
	dictID := c.MustGet("dictID").(uint)

	// Книга собирается в буфер, чтобы ошибка не оборвала уже начатый ответ
	var buf bytes.Buffer
	filename, err := h.dictService.ExportXLSX(dictID, &buf)
	if err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportXLSX принимает multipart-поле file с книгой Excel
func (h *DictionaryHandler) ImportXLSX(c *gin.Context) {
	dictID := c.MustGet("dictID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBindingError(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("[DictionaryHandler] Не удалось открыть загруженный файл: %v", err)
		respondBindingError(c, err)
		return
	}
	defer file.Close()

	count, err := h.dictService.ImportXLSX(dictID, file)
	if err != nil {
		respondError(c, "DictionaryHandler", err)
		return
	}
	respondOK(c, http.StatusOK, "Words imported", gin.H{"count": count})
}
