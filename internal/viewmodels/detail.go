package viewmodels

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

// CharacterRepository is the slice of [catalog.Repository] the detail screen needs.
type CharacterRepository interface {
	GetCharacter(ctx context.Context, id string) (models.Result[models.MarvelCharacter], bool)
	SaveCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[models.MarvelCharacter]
	DeleteCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[string]
}

// CharacterUIState is what the detail screen renders.
//
// IsSaved travels next to the character, never on it: a web copy is unsaved until the user favorites it.
type CharacterUIState struct {
	Character *models.MarvelCharacter
	Loading   bool
	Error     string
	IsSaved   bool
}

// CharacterDetail is the state holder for one character's detail screen.
type CharacterDetail struct {
	repo   CharacterRepository
	id     string
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// opMu serializes Load and OnFavoritePressed so toggles apply in press order.
	opMu sync.Mutex

	mu        sync.RWMutex
	character *models.MarvelCharacter
	loading   bool
	errMsg    string
	saved     bool

	changed chan struct{}
}

// NewCharacterDetail creates the detail state for id, scoped to parent. The initial state is loading.
func NewCharacterDetail(parent context.Context, repo CharacterRepository, id string, logger *log.Logger) *CharacterDetail {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	ctx, cancel := context.WithCancel(parent)
	return &CharacterDetail{
		repo:    repo,
		id:      models.CharacterID(id),
		logger:  shared.WithLogger(logger, "component", "detail", "id", id),
		ctx:     ctx,
		cancel:  cancel,
		loading: true,
		changed: make(chan struct{}, 1),
	}
}

// ID returns the character id the screen shows.
func (d *CharacterDetail) ID() string {
	return d.id
}

// State returns a snapshot of the current UI state.
func (d *CharacterDetail) State() CharacterUIState {
	d.mu.RLock()
	defer d.mu.RUnlock()

	state := CharacterUIState{Loading: d.loading, Error: d.errMsg, IsSaved: d.saved}
	if d.character != nil {
		c := *d.character
		state.Character = &c
	}
	return state
}

// Changed signals after every state change.
func (d *CharacterDetail) Changed() <-chan struct{} {
	return d.changed
}

// Load fetches the character: the saved copy first, the web copy on a miss. It returns the resulting state.
func (d *CharacterDetail) Load() CharacterUIState {
	d.opMu.Lock()
	defer d.opMu.Unlock()

	d.update(func() { d.loading = true })

	res, saved := d.repo.GetCharacter(d.ctx, d.id)
	if d.ctx.Err() != nil {
		return d.State()
	}

	d.update(func() {
		d.loading = false
		if res.Succeeded() {
			c := res.Value()
			d.character = &c
			d.errMsg = ""
			d.saved = saved
			return
		}
		d.logger.Warn("load failed", "err", res.Err(), "kind", shared.ErrorKind(res.Err()))
		d.character = nil
		d.errMsg = res.Err().Error()
		d.saved = false
	})

	return d.State()
}

// OnFavoritePressed toggles the saved state: it saves an unsaved character and removes a saved one.
// Without a loaded character it does nothing.
func (d *CharacterDetail) OnFavoritePressed() CharacterUIState {
	d.opMu.Lock()
	defer d.opMu.Unlock()

	current := d.State()
	if current.Character == nil {
		return current
	}

	var err error
	if current.IsSaved {
		err = d.repo.DeleteCharacter(d.ctx, *current.Character).Err()
	} else {
		err = d.repo.SaveCharacter(d.ctx, *current.Character).Err()
	}
	if d.ctx.Err() != nil {
		return d.State()
	}

	d.update(func() {
		if err != nil {
			d.logger.Warn("favorite toggle failed", "err", err)
			d.errMsg = err.Error()
			return
		}
		d.errMsg = ""
		d.saved = !current.IsSaved
	})

	return d.State()
}

// Close cancels all outstanding work for the screen.
func (d *CharacterDetail) Close() {
	d.cancel()
}

func (d *CharacterDetail) update(fn func()) {
	d.mu.Lock()
	fn()
	d.mu.Unlock()

	select {
	case d.changed <- struct{}{}:
	default:
	}
}
