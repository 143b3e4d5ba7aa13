// Package roster manages teammates, who plays where and the batting order.
package roster

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okaytrev/softball-lineup/internal/constants"
	"github.com/okaytrev/softball-lineup/internal/domain"
)

// ErrInvalid is wrapped by every rejected roster change.
var ErrInvalid = errors.New("invalid roster change")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// DefaultTeammates is the team as first set up.
func DefaultTeammates() []domain.Player {
	return []domain.Player{
		{ID: 1, Name: "Kyle H"},
		{ID: 2, Name: "Trevar"},
		{ID: 3, Name: "Jayson G"},
		{ID: 4, Name: "Kyle P"},
		{ID: 5, Name: "Jason"},
		{ID: 6, Name: "Andy"},
		{ID: 7, Name: "Damion"},
		{ID: 8, Name: "Mitch"},
		{ID: 9, Name: "Jaspen"},
		{ID: 10, Name: "Joe"},
		{ID: 11, Name: "Dan"},
		{ID: 12, Name: "Matt"},
	}
}

// Snapshot is the persisted form: the batting order is stored as ids only.
type Snapshot struct {
	FieldPositions map[string]int  `json:"fieldPositions"`
	BattingLineup  []int           `json:"battingLineup"`
	Teammates      []domain.Player `json:"teammates"`
}

// Roster is safe for concurrent use. A player holds at most one field
// position and the batting order always matches the players on the field.
type Roster struct {
	mu        sync.RWMutex
	teammates []domain.Player
	field     map[Position]int
	lineup    []int
	nextID    int
}

func New() *Roster {
	r := &Roster{}
	r.reset()
	return r
}

func (r *Roster) reset() {
	r.teammates = DefaultTeammates()
	r.field = make(map[Position]int)
	r.lineup = nil
	r.nextID = constants.FirstAddedPlayerID
}

// ResolvePlayer looks a teammate up by id.
func (r *Roster) ResolvePlayer(id int) (domain.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(id)
}

func (r *Roster) Teammates() []domain.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Player(nil), r.teammates...)
}

// Available lists teammates who are not on the field.
func (r *Roster) Available() []domain.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Player
	for _, p := range r.teammates {
		if _, on := r.positionOf(p.ID); !on {
			out = append(out, p)
		}
	}
	return out
}

func (r *Roster) AddPlayer(name string) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, invalid("player name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p := domain.Player{ID: r.nextID, Name: name}
	r.nextID++
	r.teammates = append(r.teammates, p)
	return p, nil
}

// RemovePlayer drops a teammate, taking them off the field and out of the
// batting order.
func (r *Roster) RemovePlayer(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return invalid("unknown player %d", id)
	}
	r.teammates = append(r.teammates[:i], r.teammates[i+1:]...)
	r.clearPlayer(id)
	r.syncLineup()
	return nil
}

// AssignPosition puts a player at pos, moving them from any position they
// held and bumping whoever was there.
func (r *Roster) AssignPosition(pos Position, id int) error {
	if !pos.Valid() {
		return invalid("unknown position %q", pos)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.find(id); !ok {
		return invalid("unknown player %d", id)
	}
	r.clearPlayer(id)
	r.field[pos] = id
	r.syncLineup()
	return nil
}

func (r *Roster) RemoveFromField(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, on := r.positionOf(id); !on {
		return invalid("player %d is not on the field", id)
	}
	r.clearPlayer(id)
	r.syncLineup()
	return nil
}

// MoveInLineup moves a batter to a zero-based slot.
func (r *Roster) MoveInLineup(id, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	from := -1
	for i, v := range r.lineup {
		if v == id {
			from = i
			break
		}
	}
	if from < 0 {
		return invalid("player %d is not in the batting order", id)
	}
	if index < 0 || index >= len(r.lineup) {
		return invalid("batting slot %d out of range", index+1)
	}
	r.lineup = append(r.lineup[:from], r.lineup[from+1:]...)
	r.lineup = append(r.lineup[:index], append([]int{id}, r.lineup[index:]...)...)
	return nil
}

// ResetRoster restores the default team and clears the field.
func (r *Roster) ResetRoster() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

func (r *Roster) ResetField() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.field = make(map[Position]int)
	r.lineup = nil
}

func (r *Roster) PositionOf(id int) (Position, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.positionOf(id)
}

func (r *Roster) FieldPositions() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fieldPositions()
}

// BattingOrder is the lineup as players, for the end-of-game envelope.
func (r *Roster) BattingOrder() []domain.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Player, 0, len(r.lineup))
	for _, id := range r.lineup {
		if p, ok := r.find(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// BattingLineup is the batting order with each batter's position key.
func (r *Roster) BattingLineup() []domain.LineupSlot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.battingLineup()
}

// Lineup builds the object saved to the lineup sheet.
func (r *Roster) Lineup(savedAt time.Time) domain.Lineup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.Lineup{
		FieldPositions: r.fieldPositions(),
		BattingLineup:  r.battingLineup(),
		Teammates:      append([]domain.Player(nil), r.teammates...),
		SavedAt:        savedAt,
	}
}

func (r *Roster) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		FieldPositions: r.fieldPositions(),
		BattingLineup:  append([]int{}, r.lineup...),
		Teammates:      append([]domain.Player(nil), r.teammates...),
	}
}

// Restore replaces the state with a persisted snapshot. An empty teammate
// list keeps the current team. Unknown positions and players are dropped.
func (r *Roster) Restore(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restore(s.Teammates, s.FieldPositions, s.BattingLineup)
}

// ApplyLineup replaces the state with a lineup loaded from the cloud.
func (r *Roster) ApplyLineup(l domain.Lineup) {
	ids := make([]int, 0, len(l.BattingLineup))
	for _, slot := range l.BattingLineup {
		ids = append(ids, slot.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restore(l.Teammates, l.FieldPositions, ids)
}

func (r *Roster) restore(teammates []domain.Player, field map[string]int, lineup []int) {
	if len(teammates) > 0 {
		r.teammates = append([]domain.Player(nil), teammates...)
		for _, p := range r.teammates {
			if p.ID >= r.nextID {
				r.nextID = p.ID + 1
			}
		}
	}

	r.field = make(map[Position]int)
	for key, id := range field {
		pos := Position(key)
		if !pos.Valid() {
			continue
		}
		if _, ok := r.find(id); !ok {
			continue
		}
		r.field[pos] = id
	}

	r.lineup = nil
	seen := make(map[int]bool)
	for _, id := range lineup {
		if _, ok := r.find(id); ok && !seen[id] {
			seen[id] = true
			r.lineup = append(r.lineup, id)
		}
	}
	r.syncLineup()
}

// syncLineup drops batters who left the field and appends new fielders in
// position order.
func (r *Roster) syncLineup() {
	onField := make(map[int]bool, len(r.field))
	for _, id := range r.field {
		onField[id] = true
	}

	kept := r.lineup[:0]
	inLineup := make(map[int]bool)
	for _, id := range r.lineup {
		if onField[id] {
			kept = append(kept, id)
			inLineup[id] = true
		}
	}
	r.lineup = kept

	for _, pos := range Positions {
		id, ok := r.field[pos]
		if !ok || inLineup[id] {
			continue
		}
		r.lineup = append(r.lineup, id)
		inLineup[id] = true
	}
}

func (r *Roster) clearPlayer(id int) {
	for pos, v := range r.field {
		if v == id {
			delete(r.field, pos)
		}
	}
}

func (r *Roster) positionOf(id int) (Position, bool) {
	for _, pos := range Positions {
		if v, ok := r.field[pos]; ok && v == id {
			return pos, true
		}
	}
	return "", false
}

func (r *Roster) fieldPositions() map[string]int {
	out := make(map[string]int, len(r.field))
	for pos, id := range r.field {
		out[string(pos)] = id
	}
	return out
}

func (r *Roster) battingLineup() []domain.LineupSlot {
	out := make([]domain.LineupSlot, 0, len(r.lineup))
	for _, id := range r.lineup {
		p, ok := r.find(id)
		if !ok {
			continue
		}
		slot := domain.LineupSlot{ID: p.ID, Name: p.Name}
		if pos, on := r.positionOf(id); on {
			slot.Position = string(pos)
		}
		out = append(out, slot)
	}
	return out
}

func (r *Roster) find(id int) (domain.Player, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.teammates[i], true
	}
	return domain.Player{}, false
}

func (r *Roster) indexOf(id int) int {
	for i, p := range r.teammates {
		if p.ID == id {
			return i
		}
	}
	return -1
}
