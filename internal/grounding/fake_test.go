package grounding_test

import (
	"context"
	"sync"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/scoring"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/wikidata"
)

type fakeSource struct {
	mu         sync.Mutex
	hits       map[string][]wikidata.SearchHit
	searchErr  map[string]error
	entities   map[string]*wikidata.Entity
	detailErr  map[string]error
	members    map[string]bool
	memberErr  map[string]error
	onSearch   func(text string)
	searches   []string
	details    []string
	membership []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		hits:      map[string][]wikidata.SearchHit{},
		searchErr: map[string]error{},
		entities:  map[string]*wikidata.Entity{},
		detailErr: map[string]error{},
		members:   map[string]bool{},
		memberErr: map[string]error{},
	}
}

func (f *fakeSource) addEntity(text string, e wikidata.Entity) {
	f.hits[text] = append(f.hits[text], wikidata.SearchHit{ID: e.ID, Label: e.Label, Description: e.Description})
	entity := e
	f.entities[e.ID] = &entity
}

func (f *fakeSource) Search(_ context.Context, text string, _ int) ([]wikidata.SearchHit, error) {
	f.mu.Lock()
	f.searches = append(f.searches, text)
	hook := f.onSearch
	f.mu.Unlock()
	if hook != nil {
		hook(text)
	}
	if err := f.searchErr[text]; err != nil {
		return nil, err
	}
	return f.hits[text], nil
}

func (f *fakeSource) EntityDetails(_ context.Context, id string) (*wikidata.Entity, error) {
	f.mu.Lock()
	f.details = append(f.details, id)
	f.mu.Unlock()
	if err := f.detailErr[id]; err != nil {
		return nil, err
	}
	e, ok := f.entities[id]
	if !ok {
		return nil, &wikidata.Error{Op: "details", ID: id, Err: wikidata.ErrNotFound}
	}
	return e, nil
}

func (f *fakeSource) HasMembership(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	f.membership = append(f.membership, id)
	f.mu.Unlock()
	if err := f.memberErr[id]; err != nil {
		return false, err
	}
	return f.members[id], nil
}

var _ wikidata.Source = (*fakeSource)(nil)

func year(y int) *int { return scoring.Year(y) }
