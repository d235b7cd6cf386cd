package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/marvelx/internal/formatter"
	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

var _ list.Item = characterItem{}

// characterItem wraps [models.MarvelCharacter] to implement [list.Item].
type characterItem struct {
	character models.MarvelCharacter
}

func (i characterItem) FilterValue() string { return i.character.Name }
func (i characterItem) Title() string       { return i.character.Name }
func (i characterItem) Description() string {
	return shared.Truncate(formatter.DescriptionText(i.character), 72)
}

func characterItems(cs []models.MarvelCharacter) []list.Item {
	items := make([]list.Item, len(cs))
	for i, c := range cs {
		items[i] = characterItem{character: c}
	}
	return items
}

func newCharacterList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}
