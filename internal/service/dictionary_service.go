package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
)

const (
	maxNameLength   = 255
	xlsxSheetName   = "Words"
	xlsxHeaderTrans = "translation"
	xlsxHeaderTerm  = "term"
)

// DictionaryService управляет словарями, словами и их импортом/экспортом
type DictionaryService struct {
	dictRepo repository.DictionaryRepository
	wordRepo repository.WordRepository
}

// NewDictionaryService создает новый сервис словарей
func NewDictionaryService(dictRepo repository.DictionaryRepository, wordRepo repository.WordRepository) *DictionaryService {
	return &DictionaryService{dictRepo: dictRepo, wordRepo: wordRepo}
}

// WordPair - пара терминов до сохранения
type WordPair struct {
	Term        string
	Translation string
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("Dictionary name required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", validationError("Dictionary name is too long")
	}
	return name, nil
}

func validatePair(term, translation string) (WordPair, error) {
	p := WordPair{Term: strings.TrimSpace(term), Translation: strings.TrimSpace(translation)}
	if p.Term == "" || p.Translation == "" {
		return p, validationError("Term and translation required")
	}
	if utf8.RuneCountInString(p.Term) > maxNameLength || utf8.RuneCountInString(p.Translation) > maxNameLength {
		return p, validationError("Term or translation is too long")
	}
	return p, nil
}

// List возвращает живые словари с количеством слов
func (s *DictionaryService) List() ([]entity.DictionarySummary, error) {
	dicts, err := s.dictRepo.ListWithWordCount()
	if err != nil {
		return nil, storeFailure("list dictionaries", err)
	}
	return dicts, nil
}

// Create создает словарь
func (s *DictionaryService) Create(name string) (*entity.Dictionary, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	dict := &entity.Dictionary{Name: name}
	if err := s.dictRepo.Create(dict); err != nil {
		return nil, storeFailure("create dictionary", err)
	}
	return dict, nil
}

// Rename переименовывает словарь
func (s *DictionaryService) Rename(dictID uint, name string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	if err := s.dictRepo.Rename(dictID, name); err != nil {
		return lookupFailure("rename dictionary", err, ErrDictionaryNotFound)
	}
	return nil
}

// Delete мягко удаляет словарь вместе со словами.
// Уже созданные игры продолжают ссылаться на удалённые слова.
func (s *DictionaryService) Delete(dictID uint) error {
	if err := s.dictRepo.SoftDeleteCascade(dictID); err != nil {
		return lookupFailure("delete dictionary", err, ErrDictionaryNotFound)
	}
	log.Printf("[DictionaryService] Словарь #%d и его слова помечены удалёнными", dictID)
	return nil
}

func (s *DictionaryService) activeDictionary(op string, dictID uint) (*entity.Dictionary, error) {
	dict, err := s.dictRepo.GetActiveByID(dictID)
	if err != nil {
		return nil, lookupFailure(op, err, ErrDictionaryNotFound)
	}
	return dict, nil
}

// ListWords возвращает живые слова словаря
func (s *DictionaryService) ListWords(dictID uint) ([]entity.Word, error) {
	if _, err := s.activeDictionary("list words", dictID); err != nil {
		return nil, err
	}
	words, err := s.wordRepo.ListActiveByDictionary(dictID)
	if err != nil {
		return nil, storeFailure("list words", err)
	}
	return words, nil
}

// AddWord добавляет слово в словарь
func (s *DictionaryService) AddWord(dictID uint, term, translation string) (*entity.Word, error) {
	pair, err := validatePair(term, translation)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeDictionary("add word", dictID); err != nil {
		return nil, err
	}
	word := &entity.Word{DictionaryID: dictID, Term: pair.Term, Translation: pair.Translation}
	if err := s.wordRepo.Create(word); err != nil {
		return nil, storeFailure("add word", err)
	}
	return word, nil
}

// UpdateWord меняет пару терминов
func (s *DictionaryService) UpdateWord(wordID uint, term, translation string) error {
	pair, err := validatePair(term, translation)
	if err != nil {
		return err
	}
	if err := s.wordRepo.Update(wordID, pair.Term, pair.Translation); err != nil {
		return lookupFailure("update word", err, ErrWordNotFound)
	}
	return nil
}

// DeleteWord мягко удаляет слово
func (s *DictionaryService) DeleteWord(wordID uint) error {
	if err := s.wordRepo.SoftDelete(wordID); err != nil {
		return lookupFailure("delete word", err, ErrWordNotFound)
	}
	return nil
}

// ParseCSVWords разбирает строки "translation,term".
// Всё после первой запятой - term. Строки без двух непустых полей пропускаются.
func ParseCSVWords(content string) []WordPair {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var pairs []WordPair
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			break
		}
		if len(record) < 2 {
			continue
		}
		pair, err := validatePair(strings.Join(record[1:], ","), record[0])
		if err != nil {
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// ImportCSV добавляет слова из CSV одной пачкой и возвращает их количество
func (s *DictionaryService) ImportCSV(dictID uint, content string) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, validationError("CSV content required")
	}
	if _, err := s.activeDictionary("import csv", dictID); err != nil {
		return 0, err
	}
	return s.insertPairs("import csv", dictID, ParseCSVWords(content))
}

// ExportCSV возвращает имя файла и содержимое CSV живых слов словаря
func (s *DictionaryService) ExportCSV(dictID uint) (string, string, error) {
	dict, err := s.activeDictionary("export csv", dictID)
	if err != nil {
		return "", "", err
	}
	words, err := s.wordRepo.ListActiveByDictionary(dictID)
	if err != nil {
		return "", "", storeFailure("export csv", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, w := range words {
		if err := writer.Write([]string{w.Translation, w.Term}); err != nil {
			return "", "", fmt.Errorf("export csv: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", "", fmt.Errorf("export csv: %w", err)
	}

	return dict.Name + ".csv", strings.TrimSuffix(buf.String(), "\n"), nil
}

// ImportXLSX читает первый лист книги: колонка A - translation, B - term.
// Строка заголовка и неполные строки пропускаются.
func (s *DictionaryService) ImportXLSX(dictID uint, r io.Reader) (int, error) {
	if _, err := s.activeDictionary("import xlsx", dictID); err != nil {
		return 0, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, validationError("Invalid XLSX file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, validationError("XLSX file has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return 0, validationError("Invalid XLSX file")
	}
	defer rows.Close()

	var pairs []WordPair
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			log.Printf("[DictionaryService] Ошибка чтения строки XLSX: %v", err)
			continue
		}
		if len(cols) < 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(cols[0]), xlsxHeaderTrans) && strings.EqualFold(strings.TrimSpace(cols[1]), xlsxHeaderTerm) {
			continue
		}
		pair, err := validatePair(cols[1], cols[0])
		if err != nil {
			continue
		}
		pairs = append(pairs, pair)
	}

	return s.insertPairs("import xlsx", dictID, pairs)
}

// ExportXLSX пишет книгу с живыми словами словаря в w и возвращает имя файла
func (s *DictionaryService) ExportXLSX(dictID uint, w io.Writer) (string, error) {
	dict, err := s.activeDictionary("export xlsx", dictID)
	if err != nil {
		return "", err
	}
	words, err := s.wordRepo.ListActiveByDictionary(dictID)
	if err != nil {
		return "", storeFailure("export xlsx", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}
	sw, err := f.NewStreamWriter(xlsxSheetName)
	if err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}

	if err := sw.SetRow("A1", []interface{}{xlsxHeaderTrans, xlsxHeaderTerm}); err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}
	for i, word := range words {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{word.Translation, word.Term}); err != nil {
			return "", fmt.Errorf("export xlsx row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}
	return dict.Name + ".xlsx", nil
}

func (s *DictionaryService) insertPairs(op string, dictID uint, pairs []WordPair) (int, error) {
	if len(pairs) == 0 {
		return 0, nil
	}
	words := make([]entity.Word, len(pairs))
	for i, p := range pairs {
		words[i] = entity.Word{DictionaryID: dictID, Term: p.Term, Translation: p.Translation}
	}
	if err := s.wordRepo.CreateBatch(words); err != nil {
		return 0, storeFailure(op, err)
	}
	log.Printf("[DictionaryService] %s: в словарь #%d добавлено %d слов", op, dictID, len(words))
	return len(words), nil
}
