package world

import "fmt"

type Player struct {
	ID        string
	Name      string
	Connected bool
}

func (w *World) AddPlayer(id, name string, connected bool) (*Player, error) {
	if id == "" {
		return nil, fmt.Errorf("player id is empty")
	}
	if _, ok := w.players[id]; ok {
		return nil, fmt.Errorf("player %s already exists", id)
	}
	p := &Player{ID: id, Name: name, Connected: connected}
	w.players[id] = p
	return p, nil
}

func (w *World) FindPlayer(id string) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// PlayerValid reports whether id names a connected player.
func (w *World) PlayerValid(id string) bool {
	p, ok := w.players[id]
	return ok && p.Connected
}

func (w *World) RemovePlayer(id string) {
	delete(w.players, id)
	for _, perm := range w.perms.Granted(id) {
		w.perms.Revoke(id, perm)
	}
}

func (w *World) SetConnected(id string, connected bool) error {
	p, ok := w.players[id]
	if !ok {
		return fmt.Errorf("no player %s", id)
	}
	p.Connected = connected
	return nil
}

func (w *World) HasPermission(playerID, perm string) bool {
	return w.perms.Has(playerID, perm)
}

func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.players))
	for _, id := range sortedKeys(w.players) {
		out = append(out, w.players[id])
	}
	return out
}
