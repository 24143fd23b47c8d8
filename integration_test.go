package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pocketpet/pocketpet/internal/art"
	"github.com/pocketpet/pocketpet/internal/conditions"
	"github.com/pocketpet/pocketpet/internal/engine"
	"github.com/pocketpet/pocketpet/internal/hatch"
	"github.com/pocketpet/pocketpet/internal/health"
	"github.com/pocketpet/pocketpet/internal/notify"
	"github.com/pocketpet/pocketpet/internal/pet"
	"github.com/pocketpet/pocketpet/internal/storage"
)

type offsetClock struct {
	offset time.Duration
}

func (c *offsetClock) Now() time.Time { return time.Now().Add(c.offset) }

func TestFullLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pet.db")
	cfg := pet.Default()

	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	// Hatch a brand-new pet.
	snap := pet.NewSnapshot(cfg)
	snap.Pet.Name = "Pip"
	g := engine.New(cfg, snap, storage.SnapshotKey, engine.Deps{
		Saver:     db,
		Ledger:    db,
		Scheduler: notify.NewLogScheduler(nil),
	})

	res, err := hatch.New(cfg, nil, nil).Hatch(context.Background())
	if err != nil {
		t.Fatalf("Failed to hatch: %v", err)
	}
	g.AdoptHatch(res)

	got := g.Snapshot()
	if got.Pet.Species != "Duck" {
		t.Errorf("Expected a level-1 Duck, got %q", got.Pet.Species)
	}
	if got.Pet.Name != "Pip" {
		t.Errorf("Expected name 'Pip', got %q", got.Pet.Name)
	}
	if len(got.Pet.Traits) != 3 {
		t.Errorf("Expected 3 traits, got %v", got.Pet.Traits)
	}

	// Care for it: feed, clean, play.
	for _, action := range []string{"feed", "clean", "play"} {
		if out := g.Apply(action); !out.OK() {
			t.Fatalf("Action %q rejected: %s", action, out.Code)
		}
	}

	got = g.Snapshot()
	if got.Stamina != cfg.MaxStamina-3 {
		t.Errorf("Expected stamina %d, got %d", cfg.MaxStamina-3, got.Stamina)
	}
	if got.XP != 5+4+8 {
		t.Errorf("Expected XP 17, got %d", got.XP)
	}
	if got.Coins != 250-10-2-5 {
		t.Errorf("Expected coins 233, got %d", got.Coins)
	}

	// Status derivation and rendering work off the same snapshot.
	wellbeing := health.ComputeWellbeing(got.Hunger, got.Happiness, got.Energy, got.Hygiene, health.ComputationAverage)
	status := conditions.DeriveStatus(got.Vitals(), got.Stamina, wellbeing)
	if status.Primary == "" {
		t.Error("Expected a primary condition")
	}
	if card := art.StatsCard(got, cfg.MaxStamina); card == "" {
		t.Error("Expected non-empty stats card")
	}

	// Buy a coin pack; the credit survives and is applied exactly once.
	if out := g.CreditPurchase("com.tamagotchi.pacotebasico_500", "txn-integration"); !out.OK() {
		t.Fatalf("Credit rejected: %s", out.Code)
	}
	if out := g.CreditPurchase("com.tamagotchi.pacotebasico_500", "txn-integration"); out.Code != engine.CodeDuplicateTransaction {
		t.Fatalf("Expected duplicate_transaction on replay, got %s", out.Code)
	}

	coinsBeforeClose := g.Snapshot().Coins
	if coinsBeforeClose != 233+500 {
		t.Errorf("Expected coins 733, got %d", coinsBeforeClose)
	}
	db.Close()

	// Reopen later: the snapshot is intact and offline regeneration
	// catches stamina up from the time of the last save.
	db, err = storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	loaded, found, err := db.LoadSnapshot(storage.SnapshotKey, pet.NewSnapshot(cfg))
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if !found {
		t.Fatal("Expected the saved snapshot to exist")
	}
	if loaded.Coins != coinsBeforeClose {
		t.Errorf("Coins not persisted: expected %d, got %d", coinsBeforeClose, loaded.Coins)
	}
	if loaded.Pet.Name != "Pip" {
		t.Errorf("Name not persisted: got %q", loaded.Pet.Name)
	}

	// Pretend 65 minutes passed while the app was closed.
	g2 := engine.New(cfg, loaded, storage.SnapshotKey, engine.Deps{
		Clock:  &offsetClock{offset: 65 * time.Minute},
		Saver:  db,
		Ledger: db,
	})
	recovered := g2.Resume()
	if recovered != 2 {
		t.Errorf("Expected 2 stamina recovered after 65 minutes, got %d", recovered)
	}
	if got := g2.Snapshot().Stamina; got != cfg.MaxStamina-1 {
		t.Errorf("Expected stamina %d, got %d", cfg.MaxStamina-1, got)
	}

	// The ledger also survived: replaying the old transaction on the
	// new engine still refuses to double-credit.
	if out := g2.CreditPurchase("com.tamagotchi.pacotebasico_500", "txn-integration"); out.Code != engine.CodeDuplicateTransaction {
		t.Errorf("Expected duplicate_transaction across restart, got %s", out.Code)
	}
}

func TestRerollKeepsNameAndLevel(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pet.db")
	cfg := pet.Default()

	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	snap := pet.NewSnapshot(cfg)
	snap.Pet.Name = "Rusty"
	snap.Pet.Level = 5
	snap.Pet.Species = "Fox"
	snap.XP = 60

	g := engine.New(cfg, snap, storage.SnapshotKey, engine.Deps{Saver: db})

	res, err := hatch.New(cfg, nil, nil).Reroll(context.Background())
	if err != nil {
		t.Fatalf("Failed to reroll: %v", err)
	}
	g.AdoptHatch(res)

	got := g.Snapshot()
	if got.Pet.Name != "Rusty" {
		t.Errorf("Reroll changed the name: got %q", got.Pet.Name)
	}
	if got.Pet.Level != 5 {
		t.Errorf("Reroll changed the level: got %d", got.Pet.Level)
	}
	if got.XP != 60 {
		t.Errorf("Reroll changed XP: got %d", got.XP)
	}
	if got.Pet.Species == "" {
		t.Error("Expected a species from the reroll")
	}
}

func TestEvolutionThroughPlay(t *testing.T) {
	cfg := pet.Default()
	snap := pet.NewSnapshot(cfg)
	snap.Coins = 10000
	snap.XP = 92

	g := engine.New(cfg, snap, "test", engine.Deps{})

	// 8 XP from play crosses the threshold exactly.
	out := g.Apply("play")
	if !out.OK() {
		t.Fatalf("Play rejected: %s", out.Code)
	}
	if out.Evolution == nil {
		t.Fatal("Expected an evolution")
	}
	if out.Evolution.NewSpecies != "Flamingo" {
		t.Errorf("Expected Flamingo at level 2, got %q", out.Evolution.NewSpecies)
	}

	got := g.Snapshot()
	if got.XP != 0 {
		t.Errorf("Expected XP 0 after an exact-threshold level-up, got %d", got.XP)
	}
	if art.ForSpecies(got.Pet.Species) == "" {
		t.Error("Expected art for the evolved species")
	}
}
