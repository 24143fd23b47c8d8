// Package engine is the single authority over the game state. Every
// mutation (user actions, stamina ticks, store credits, hatching)
// goes through one mutex-guarded transition at a time, so reads never
// observe a half-applied transaction.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pocketpet/pocketpet/internal/hatch"
	"github.com/pocketpet/pocketpet/internal/notify"
	"github.com/pocketpet/pocketpet/internal/pet"
	"github.com/pocketpet/pocketpet/internal/progression"
	"github.com/pocketpet/pocketpet/internal/stamina"
	"github.com/pocketpet/pocketpet/internal/store"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Saver persists snapshots. Failures are logged and swallowed: the
// game keeps running in memory and the next mutation retries the save.
type Saver interface {
	SaveSnapshot(key string, snap pet.Snapshot) error
}

// Code classifies the result of a transition. Guard failures are
// ordinary values, not errors, so callers branch without unwinding.
type Code string

const (
	CodeOK                   Code = "ok"
	CodeInsufficientStamina  Code = "insufficient_stamina"
	CodeInsufficientFunds    Code = "insufficient_funds"
	CodeUnknownAction        Code = "unknown_action"
	CodeUnknownProduct       Code = "unknown_product"
	CodeStaminaFull          Code = "stamina_full"
	CodeDuplicateTransaction Code = "duplicate_transaction"
)

// Outcome reports a transition result. OpenStore asks the frontend to
// surface the store; Evolution is set when the transition leveled the
// pet up; CoinsCredited is set by successful purchase credits.
type Outcome struct {
	Code          Code
	OpenStore     bool
	Evolution     *progression.Evolution
	CoinsCredited int
}

// OK reports whether the transition mutated state.
func (o Outcome) OK() bool { return o.Code == CodeOK }

// Deps are the engine's external collaborators. All of them may be
// nil; the engine then runs purely in memory.
type Deps struct {
	Clock     Clock
	Saver     Saver
	Ledger    store.Ledger
	Scheduler notify.Scheduler
	Log       *slog.Logger
}

// Game owns the live snapshot and applies transitions to it.
type Game struct {
	mu     sync.Mutex
	cfg    pet.Config
	snap   pet.Snapshot
	key    string
	clk    Clock
	saver  Saver
	ledger store.Ledger
	sched  notify.Scheduler
	log    *slog.Logger
	ticker *stamina.Ticker
}

// New wraps a loaded snapshot in a Game. The snapshot should come from
// storage.LoadSnapshot (or pet.NewSnapshot for a fresh game).
func New(cfg pet.Config, snap pet.Snapshot, key string, deps Deps) *Game {
	if deps.Clock == nil {
		deps.Clock = RealClock{}
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	return &Game{
		cfg:    cfg,
		snap:   snap,
		key:    key,
		clk:    deps.Clock,
		saver:  deps.Saver,
		ledger: deps.Ledger,
		sched:  deps.Scheduler,
		log:    deps.Log,
	}
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() pet.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.copySnapshot()
}

func (g *Game) copySnapshot() pet.Snapshot {
	snap := g.snap
	if g.snap.Pet.Traits != nil {
		snap.Pet.Traits = append([]string(nil), g.snap.Pet.Traits...)
	}
	return snap
}

// Config returns the balance table the game runs on.
func (g *Game) Config() pet.Config { return g.cfg }

// Resume applies offline stamina regeneration from the time the
// snapshot was last saved, then refreshes the refill reminder. Call it
// once after loading, before any action.
func (g *Game) Resume() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	recovered := 0
	if g.snap.LastSavedAt > 0 {
		before := g.snap.Stamina
		g.snap.Stamina = stamina.Regenerate(
			g.snap.Stamina,
			time.UnixMilli(g.snap.LastSavedAt),
			g.clk.Now(),
			g.cfg.MaxStamina,
			g.cfg.RechargeInterval(),
		)
		recovered = g.snap.Stamina - before
	}
	g.persist()
	g.refreshReminder()
	return recovered
}

// Apply runs one named action as an atomic transaction: stamina gate,
// then coin gate, then deduct, apply stat deltas, clamp, and grant XP.
// Rejected actions mutate nothing.
func (g *Game) Apply(action string) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	def, ok := g.cfg.Actions[action]
	if !ok {
		return Outcome{Code: CodeUnknownAction}
	}

	// Gate order is fixed: stamina first, then funds.
	if g.snap.Stamina < def.StaminaCost {
		return Outcome{Code: CodeInsufficientStamina, OpenStore: true}
	}
	if g.snap.Coins < def.CoinCost {
		return Outcome{Code: CodeInsufficientFunds, OpenStore: true}
	}

	g.snap.Stamina -= def.StaminaCost
	g.snap.Coins -= def.CoinCost
	g.snap.Hunger += def.Deltas.Hunger
	g.snap.Happiness += def.Deltas.Happiness
	g.snap.Energy += def.Deltas.Energy
	g.snap.Hygiene += def.Deltas.Hygiene
	g.snap.ClampVitals()

	out := Outcome{Code: CodeOK}
	res := progression.ApplyGain(g.snap.Pet.Level, g.snap.XP, def.XPGained, g.cfg)
	g.snap.Pet.Level = res.Level
	g.snap.XP = res.XP
	g.snap.Pet.Species = res.Species
	if res.Evolved {
		g.snap.Coins += res.CoinBonus
		out.Evolution = &progression.Evolution{NewLevel: res.Level, NewSpecies: res.Species}
	}

	g.persist()
	if def.StaminaCost > 0 {
		g.refreshReminder()
	}
	return out
}

// BuyRefill spends coins to top stamina back to max. Rejected when
// stamina is already full or coins are short; no state changes then.
func (g *Game) BuyRefill() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.snap.Stamina >= g.cfg.MaxStamina {
		return Outcome{Code: CodeStaminaFull}
	}
	if g.snap.Coins < g.cfg.RefillCost {
		return Outcome{Code: CodeInsufficientFunds, OpenStore: true}
	}

	g.snap.Coins -= g.cfg.RefillCost
	g.snap.Stamina = g.cfg.MaxStamina
	g.persist()
	g.refreshReminder()
	return Outcome{Code: CodeOK}
}

// CreditPurchase applies a verified store purchase exactly once per
// transaction id. Redelivered confirmations come back as
// duplicate_transaction with no coin change; the caller should still
// acknowledge them to the platform so it stops replaying.
func (g *Game) CreditPurchase(productID, txnID string) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	coins, ok := store.CreditFor(g.cfg.Products, productID)
	if !ok {
		return Outcome{Code: CodeUnknownProduct}
	}

	if g.ledger != nil {
		seen, err := g.ledger.Credited(txnID)
		if err != nil {
			g.log.Error("ledger check failed, refusing to credit", "txn", txnID, "error", err)
			return Outcome{Code: CodeDuplicateTransaction}
		}
		if seen {
			return Outcome{Code: CodeDuplicateTransaction}
		}
		if err := g.ledger.Record(store.Credit{
			TxnID:     txnID,
			ProductID: productID,
			Coins:     coins,
			At:        g.clk.Now(),
		}); err != nil {
			g.log.Error("ledger record failed, refusing to credit", "txn", txnID, "error", err)
			return Outcome{Code: CodeDuplicateTransaction}
		}
	}

	g.snap.Coins += coins
	g.persist()
	return Outcome{Code: CodeOK, CoinsCredited: coins}
}

// AdoptHatch merges a hatch or reroll result into the pet. Name and
// level survive a reroll; a brand-new pet starts at level 1 with the
// default name. The caller is responsible for only calling this after
// avatar generation succeeded, so a failed hatch never touches state.
func (g *Game) AdoptHatch(r hatch.Result) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.snap.Pet.Name == "" {
		g.snap.Pet.Name = g.cfg.DefaultName
	}
	if g.snap.Pet.Level < 1 {
		g.snap.Pet.Level = 1
	}
	g.snap.Pet.Species = r.Species
	g.snap.Pet.Traits = append([]string(nil), r.Traits...)
	g.snap.Pet.ImageRef = r.ImageRef
	g.snap.Energy = pet.Clamp(r.Energy, pet.MinStat, pet.MaxStat)
	g.persist()
}

// Rename sets the pet's name, falling back to the default when blank.
func (g *Game) Rename(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if name == "" {
		name = g.cfg.DefaultName
	}
	g.snap.Pet.Name = name
	g.persist()
}

// StartTicker begins live stamina regeneration: one unit per recharge
// interval while the game is foregrounded. onTick, when non-nil, fires
// after each gained unit with the new stamina value.
func (g *Game) StartTicker(onTick func(staminaNow int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ticker != nil {
		return
	}
	g.ticker = stamina.StartTicker(g.cfg.RechargeInterval(), func() {
		if now, gained := g.tick(); gained && onTick != nil {
			onTick(now)
		}
	})
}

// StopTicker cancels live regeneration. Must be called on teardown.
func (g *Game) StopTicker() {
	g.mu.Lock()
	t := g.ticker
	g.ticker = nil
	g.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

func (g *Game) tick() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.snap.Stamina >= g.cfg.MaxStamina {
		return g.snap.Stamina, false
	}
	g.snap.Stamina++
	g.persist()
	g.refreshReminder()
	return g.snap.Stamina, true
}

// persist writes the snapshot through the saver. Called with the mutex
// held after every mutation. Save failures do not fail the transition;
// the in-memory state stays authoritative and the next mutation
// retries.
func (g *Game) persist() {
	g.snap.LastSavedAt = g.clk.Now().UnixMilli()
	if g.saver == nil {
		return
	}
	if err := g.saver.SaveSnapshot(g.key, g.snap); err != nil {
		g.log.Error("snapshot save failed, continuing in memory", "error", err)
	}
}

// refreshReminder supersedes any pending refill reminder with one
// matching the current stamina. Called with the mutex held whenever
// stamina changes.
func (g *Game) refreshReminder() {
	if g.sched == nil {
		return
	}
	if err := g.sched.CancelAll(); err != nil {
		g.log.Warn("cancelling reminders failed", "error", err)
	}
	r, ok := notify.RefillReminder(g.snap.Pet.Name, g.snap.Stamina, g.cfg.MaxStamina, g.cfg.RechargeInterval())
	if !ok {
		return
	}
	if err := g.sched.Schedule(r); err != nil {
		g.log.Warn("scheduling reminder failed", "error", err)
	}
}
