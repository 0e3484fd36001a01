// Package favorites bookmarks verses from the loaded corpus.
package favorites

import (
	"fmt"

	"selah-tui/internal/bible"
	"selah-tui/internal/store"
)

// Store is the persistence behind favorites.
type Store interface {
	AddFavorite(f store.Favorite) (bool, error)
	RemoveFavorite(pos bible.Position) (bool, error)
	IsFavorite(pos bible.Position) (bool, error)
	Favorites() ([]store.Favorite, error)
	UpdateFavoriteNote(pos bible.Position, note string) (bool, error)
	FavoritesCount() (int, error)
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// Add bookmarks pos, snapshotting its text and reference from c. It returns
// false when pos is already a favorite.
func (s *Service) Add(c *bible.Corpus, pos bible.Position, note string) (bool, error) {
	if !c.Valid(pos) {
		return false, fmt.Errorf("no verse at %s", c.Reference(pos))
	}
	return s.store.AddFavorite(store.Favorite{
		Position:  pos,
		Text:      c.Text(pos),
		Reference: c.Reference(pos),
		Note:      note,
	})
}

// Toggle adds pos when it is not a favorite and removes it otherwise. It
// returns the new state.
func (s *Service) Toggle(c *bible.Corpus, pos bible.Position) (bool, error) {
	is, err := s.store.IsFavorite(pos)
	if err != nil {
		return false, err
	}
	if is {
		_, err := s.store.RemoveFavorite(pos)
		return false, err
	}
	_, err = s.Add(c, pos, "")
	return err == nil, err
}

func (s *Service) Remove(pos bible.Position) (bool, error) { return s.store.RemoveFavorite(pos) }

func (s *Service) IsFavorite(pos bible.Position) (bool, error) { return s.store.IsFavorite(pos) }

// List returns favorites newest first.
func (s *Service) List() ([]store.Favorite, error) { return s.store.Favorites() }

func (s *Service) UpdateNote(pos bible.Position, note string) (bool, error) {
	return s.store.UpdateFavoriteNote(pos, note)
}

func (s *Service) Count() (int, error) { return s.store.FavoritesCount() }
