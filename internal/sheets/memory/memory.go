// Package memory provides an in-memory expense store for development and
// tests. It honors the same contract as the real backends: ids are assigned
// by the store and never reused.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gastos/internal/core"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	order   []string
	items   map[string]core.Expense
	cats    []string
	persons []string
	cards   []string
}

func New(cats, persons, cards []string) *Store {
	return &Store{
		nextID:  1,
		items:   make(map[string]core.Expense),
		cats:    dedupe(cats),
		persons: dedupe(persons),
		cards:   dedupe(cards),
	}
}

// NewFromFiles seeds taxonomies from optional text files under base,
// falling back to the household defaults.
func NewFromFiles(base string) *Store {
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	persons := readLines(filepath.Join(base, "seed_persons.txt"))
	cards := readLines(filepath.Join(base, "seed_cards.txt"))
	if len(cats) == 0 {
		cats = core.DefaultCategories
	}
	if len(persons) == 0 {
		persons = core.DefaultPersons
	}
	if len(cards) == 0 {
		cards = core.DefaultCards
	}
	return New(cats, persons, cards)
}

func (s *Store) Create(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	e.ID = id
	s.items[id] = e
	s.order = append(s.order, id)
	return id, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (s *Store) List(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.order))
	for _, id := range s.order {
		if e, ok := s.items[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) Update(_ context.Context, id string, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return core.ErrNotFound
	}
	e.ID = id
	s.items[id] = e
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Taxonomies(_ context.Context) ([]string, []string, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.cats), clone(s.persons), clone(s.cards), nil
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
