package world

import (
	"fmt"
	"sort"

	"bettercharcoal.ai/internal/sim/mathx"
)

// ItemEntity is a dropped stack lying in the world until it despawns.
type ItemEntity struct {
	EntityID    string
	Pos         mathx.Vec3
	Item        string
	Count       int
	CreatedTick uint64
	ExpiresTick uint64
}

func (w *World) newItemEntityID() string {
	w.nextItemNum++
	return fmt.Sprintf("IT%06d", w.nextItemNum)
}

// ItemEntities lists dropped stacks sorted by id.
func (w *World) ItemEntities() []ItemEntity {
	out := make([]ItemEntity, 0, len(w.items))
	for _, id := range sortedKeys(w.items) {
		out = append(out, *w.items[id])
	}
	return out
}

func (w *World) spawnItemEntity(nowTick uint64, actor string, pos mathx.Vec3, item string, count int, reason string) string {
	if item == "" || count <= 0 {
		return ""
	}
	ttl := uint64(w.cfg.ItemDespawnTicks)

	// Merge into a stack of the same item lying at the same spot.
	for _, id := range w.itemsAt[pos] {
		e := w.items[id]
		if e == nil || e.Item != item {
			continue
		}
		e.Count += count
		if exp := nowTick + ttl; exp > e.ExpiresTick {
			e.ExpiresTick = exp
		}
		w.auditEvent(nowTick, actor, "ITEM_SPAWN", pos, reason, map[string]any{
			"entity_id": e.EntityID,
			"item":      item,
			"count":     count,
			"merged":    true,
		})
		return e.EntityID
	}

	id := w.newItemEntityID()
	w.items[id] = &ItemEntity{
		EntityID:    id,
		Pos:         pos,
		Item:        item,
		Count:       count,
		CreatedTick: nowTick,
		ExpiresTick: nowTick + ttl,
	}
	w.itemsAt[pos] = append(w.itemsAt[pos], id)
	w.auditEvent(nowTick, actor, "ITEM_SPAWN", pos, reason, map[string]any{
		"entity_id": id,
		"item":      item,
		"count":     count,
		"merged":    false,
	})
	return id
}

func (w *World) removeItemEntity(nowTick uint64, actor string, id string, reason string) {
	e := w.items[id]
	if e == nil {
		return
	}
	delete(w.items, id)
	ids := w.itemsAt[e.Pos]
	for i, other := range ids {
		if other == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(w.itemsAt, e.Pos)
	} else {
		w.itemsAt[e.Pos] = ids
	}
	w.auditEvent(nowTick, actor, "ITEM_DESPAWN", e.Pos, reason, map[string]any{
		"entity_id": id,
		"item":      e.Item,
		"count":     e.Count,
	})
}

func (w *World) cleanupExpiredItemEntities(nowTick uint64) {
	if len(w.items) == 0 {
		return
	}
	var expired []string
	for id, e := range w.items {
		if e.ExpiresTick != 0 && nowTick >= e.ExpiresTick {
			expired = append(expired, id)
		}
	}
	sort.Strings(expired)
	for _, id := range expired {
		w.removeItemEntity(nowTick, "WORLD", id, "EXPIRE")
	}
}
