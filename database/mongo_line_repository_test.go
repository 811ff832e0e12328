package database

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// Two concurrent Lock calls for the same (league, game) can both pass the
// count check; the unique index is what makes the second insert fail and
// keeps first-lock-wins true. Guard the index definition so it cannot
// silently lose the keys or the unique option.
func TestLockedLineIndex_UniqueOnLeagueGame(t *testing.T) {
	t.Parallel()

	model := lockedLineIndex()

	keys, ok := model.Keys.(bson.D)
	if !ok {
		t.Fatalf("index keys have type %T, want bson.D", model.Keys)
	}
	if len(keys) != 2 || keys[0].Key != "league_code" || keys[1].Key != "game_id" {
		t.Fatalf("index keys = %v, want league_code then game_id", keys)
	}
	if model.Options == nil || model.Options.Unique == nil || !*model.Options.Unique {
		t.Fatal("locked_lines index must be unique")
	}
}
