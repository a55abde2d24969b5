package service

import (
	"sort"
	"sync"
	"time"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

// memStore - хранилище в памяти с той же семантикой условных записей, что и postgres.GameRepo
type memStore struct {
	mu     sync.Mutex
	nextID uint

	users map[uint]*entity.User
	dicts map[uint]*entity.Dictionary
	words map[uint]*entity.Word
	games map[uint]*entity.Game

	// readBarrier, если задан, заставляет чтения игры дождаться друг друга
	readBarrier *sync.WaitGroup
}

func newMemStore() *memStore {
	return &memStore{
		users: map[uint]*entity.User{},
		dicts: map[uint]*entity.Dictionary{},
		words: map[uint]*entity.Word{},
		games: map[uint]*entity.Game{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func cloneGame(g *entity.Game) *entity.Game {
	c := *g
	c.Participants = g.Participants.Clone()
	c.WordList = g.WordList.Clone()
	c.Answers = append([]entity.GameAnswer{}, g.Answers...)
	return &c
}

// --- users ---

type memUsers struct{ *memStore }

var _ repository.UserRepository = memUsers{}

func (r memUsers) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	if err := user.BeforeSave(nil); err != nil {
		return err
	}
	user.ID = r.id()
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r memUsers) get(id uint, activeOnly bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || (activeOnly && u.Deleted) {
		return nil, apperrors.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r memUsers) GetByID(id uint) (*entity.User, error)       { return r.get(id, false) }
func (r memUsers) GetActiveByID(id uint) (*entity.User, error) { return r.get(id, true) }

func (r memUsers) byName(name string, activeOnly bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == name && (!activeOnly || !u.Deleted) {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r memUsers) GetActiveByUsername(name string) (*entity.User, error) { return r.byName(name, true) }
func (r memUsers) GetByUsername(name string) (*entity.User, error)       { return r.byName(name, false) }

func (r memUsers) GetByIDs(ids []uint) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r memUsers) update(id uint, fn func(u *entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	fn(u)
	return nil
}

func (r memUsers) UpdateIntroduction(id uint, intro string) error {
	return r.update(id, func(u *entity.User) { u.Introduction = intro })
}

func (r memUsers) UpdatePassword(id uint, password string) error {
	hashed, err := entity.HashPassword(password)
	if err != nil {
		return err
	}
	return r.update(id, func(u *entity.User) { u.Password = hashed })
}

func (r memUsers) SetDeleted(id uint, deleted bool) error {
	return r.update(id, func(u *entity.User) { u.Deleted = deleted })
}

func (r memUsers) SetRole(id uint, role string) error {
	return r.update(id, func(u *entity.User) { u.Role = role })
}

func (r memUsers) List(includeDeleted bool) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		if includeDeleted || !u.Deleted {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memUsers) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	all, _ := r.List(false)
	sort.Slice(all, func(i, j int) bool {
		if all[i].Rating != all[j].Rating {
			return all[i].Rating > all[j].Rating
		}
		return all[i].ID < all[j].ID
	})
	total := int64(len(all))
	if offset >= len(all) {
		return []entity.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r memUsers) rating(id uint) int64 {
	u, _ := r.get(id, false)
	return u.Rating
}

// --- dictionaries and words ---

type memDicts struct{ *memStore }

var _ repository.DictionaryRepository = memDicts{}

func (r memDicts) Create(d *entity.Dictionary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = r.id()
	c := *d
	r.dicts[d.ID] = &c
	return nil
}

func (r memDicts) GetActiveByID(id uint) (*entity.Dictionary, error) {
	d, err := r.GetByID(id)
	if err != nil || d.Deleted {
		return nil, apperrors.ErrNotFound
	}
	return d, nil
}

func (r memDicts) GetByID(id uint) (*entity.Dictionary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dicts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (r memDicts) GetByIDs(ids []uint) ([]entity.Dictionary, error) {
	var out []entity.Dictionary
	for _, id := range ids {
		if d, err := r.GetByID(id); err == nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r memDicts) ListWithWordCount() ([]entity.DictionarySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.DictionarySummary
	for _, d := range r.dicts {
		if d.Deleted {
			continue
		}
		var n int64
		for _, w := range r.words {
			if w.DictionaryID == d.ID && !w.Deleted {
				n++
			}
		}
		out = append(out, entity.DictionarySummary{ID: d.ID, Name: d.Name, WordCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memDicts) Rename(id uint, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dicts[id]
	if !ok || d.Deleted {
		return apperrors.ErrNotFound
	}
	d.Name = name
	return nil
}

func (r memDicts) SoftDeleteCascade(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dicts[id]
	if !ok || d.Deleted {
		return apperrors.ErrNotFound
	}
	d.Deleted = true
	for _, w := range r.words {
		if w.DictionaryID == id {
			w.Deleted = true
		}
	}
	return nil
}

type memWords struct{ *memStore }

var _ repository.WordRepository = memWords{}

func (r memWords) Create(w *entity.Word) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = r.id()
	c := *w
	r.words[w.ID] = &c
	return nil
}

func (r memWords) CreateBatch(words []entity.Word) error {
	for i := range words {
		if err := r.Create(&words[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r memWords) GetActiveByID(id uint) (*entity.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.words[id]
	if !ok || w.Deleted {
		return nil, apperrors.ErrNotFound
	}
	c := *w
	return &c, nil
}

func (r memWords) GetByIDs(ids []uint) ([]entity.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Word
	for _, id := range ids {
		if w, ok := r.words[id]; ok {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r memWords) ListActiveByDictionary(dictID uint) ([]entity.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Word
	for _, w := range r.words {
		if w.DictionaryID == dictID && !w.Deleted {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memWords) ListActiveIDsByDictionary(dictID uint) ([]uint, error) {
	words, _ := r.ListActiveByDictionary(dictID)
	ids := make([]uint, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	return ids, nil
}

func (r memWords) Update(id uint, term, translation string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.words[id]
	if !ok || w.Deleted {
		return apperrors.ErrNotFound
	}
	w.Term, w.Translation = term, translation
	return nil
}

func (r memWords) SoftDelete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.words[id]
	if !ok || w.Deleted {
		return apperrors.ErrNotFound
	}
	w.Deleted = true
	return nil
}

// --- games ---

type memGames struct{ *memStore }

var _ repository.GameRepository = memGames{}

func (r memGames) Create(g *entity.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = r.id()
	g.CreatedAt = time.Now()
	r.games[g.ID] = cloneGame(g)
	return nil
}

func (r memGames) GetByID(id uint) (*entity.Game, error) {
	r.mu.Lock()
	g, ok := r.games[id]
	var c *entity.Game
	if ok {
		c = cloneGame(g)
	}
	barrier := r.readBarrier
	r.mu.Unlock()

	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if barrier != nil {
		barrier.Done()
		barrier.Wait()
	}
	return c, nil
}

func (r memGames) List(filters repository.GameFilters, limit, offset int) ([]entity.Game, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []entity.Game
	for _, g := range r.games {
		if filters.Status != "" && g.Status != filters.Status {
			continue
		}
		if filters.ParticipantID != 0 && !g.Participants.Contains(filters.ParticipantID) {
			continue
		}
		all = append(all, *cloneGame(g))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []entity.Game{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// cas повторяет WHERE id = ? AND version = ? AND status IN ? из postgres.GameRepo
func (r memGames) cas(id uint, version int64, statuses []string, apply func(g *entity.Game) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok || g.Version != version {
		return repository.ErrStaleVersion
	}
	allowed := false
	for _, st := range statuses {
		if g.Status == st {
			allowed = true
		}
	}
	if !allowed {
		return repository.ErrStaleVersion
	}
	next := cloneGame(g)
	if err := apply(next); err != nil {
		return err
	}
	next.Version++
	r.games[id] = next
	return nil
}

func (r memGames) UpdateParticipants(id uint, version int64, participants entity.IDList) error {
	return r.cas(id, version, []string{entity.GameStatusOpen}, func(g *entity.Game) error {
		g.Participants = participants.Clone()
		return nil
	})
}

func (r memGames) Start(id uint, version int64, at time.Time) error {
	return r.cas(id, version, []string{entity.GameStatusOpen}, func(g *entity.Game) error {
		g.Status = entity.GameStatusInProgress
		g.StartedAt = &at
		return nil
	})
}

func (r memGames) AppendAnswer(id uint, version int64, a *entity.GameAnswer) error {
	return r.cas(id, version, []string{entity.GameStatusInProgress}, func(g *entity.Game) error {
		if a.TurnIndex != len(g.Answers) {
			return repository.ErrStaleVersion
		}
		g.Answers = append(g.Answers, *a)
		return nil
	})
}

func (r memGames) Finish(id uint, version int64, at time.Time, deltas map[uint]int64) error {
	return r.cas(id, version, []string{entity.GameStatusOpen, entity.GameStatusInProgress}, func(g *entity.Game) error {
		for uid, d := range deltas {
			if _, ok := r.users[uid]; !ok && d != 0 {
				return repository.ErrRatingTargetMissing
			}
		}
		g.Status = entity.GameStatusFinished
		g.FinishedAt = &at
		for uid, d := range deltas {
			if u, ok := r.users[uid]; ok {
				u.Rating += d
			}
		}
		return nil
	})
}

func (r memGames) stored(id uint) *entity.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneGame(r.games[id])
}
