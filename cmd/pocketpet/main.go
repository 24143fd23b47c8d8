package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pocketpet/pocketpet/internal/art"
	"github.com/pocketpet/pocketpet/internal/conditions"
	"github.com/pocketpet/pocketpet/internal/discovery"
	"github.com/pocketpet/pocketpet/internal/engine"
	"github.com/pocketpet/pocketpet/internal/hatch"
	"github.com/pocketpet/pocketpet/internal/health"
	"github.com/pocketpet/pocketpet/internal/notify"
	"github.com/pocketpet/pocketpet/internal/pet"
	"github.com/pocketpet/pocketpet/internal/storage"
)

const Version = "v0.1.0"

var dataPathFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "pocketpet",
		Short: "pocketpet - a pocket companion you feed, clean and level up",
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Println(Version)
				return
			}
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataPathFlag, "data", "", "Path to the pet database")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.AddCommand(hatchCmd)
	rootCmd.AddCommand(rerollCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(actionCmd("feed", "Feed your pet"))
	rootCmd.AddCommand(actionCmd("play", "Play with your pet"))
	rootCmd.AddCommand(actionCmd("sleep", "Let your pet nap"))
	rootCmd.AddCommand(actionCmd("clean", "Clean your pet"))
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(completionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func findDataPath() (string, bool, error) {
	if dataPathFlag != "" {
		_, err := os.Stat(dataPathFlag)
		return dataPathFlag, err == nil, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("failed to get current directory: %w", err)
	}
	dataPath, found, err := discovery.FindDataFile(cwd)
	if err != nil {
		return "", false, err
	}
	if found {
		return dataPath, true, nil
	}

	globalPath := discovery.GlobalDataPath()
	_, statErr := os.Stat(globalPath)
	return globalPath, statErr == nil, nil
}

func loadConfigFor(dataPath string) pet.Config {
	cfgPath := discovery.ConfigPathFromData(dataPath)
	if _, err := os.Stat(cfgPath); err != nil {
		return pet.Default()
	}
	cfg, err := pet.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		return pet.Default()
	}
	return cfg
}

// loadGame opens the existing pet. The caller must Close the DB.
func loadGame() (*engine.Game, *storage.DB, error) {
	dataPath, found, err := findDataPath()
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, fmt.Errorf("no pet found. Run 'pocketpet hatch' to create one")
	}

	cfg := loadConfigFor(dataPath)
	db, err := storage.Open(dataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open pet database: %w", err)
	}

	snap, ok, err := db.LoadSnapshot(storage.SnapshotKey, pet.NewSnapshot(cfg))
	if err != nil {
		slog.Warn("stored snapshot unusable, starting fresh", "error", err)
	}
	if !ok && err == nil {
		db.Close()
		return nil, nil, fmt.Errorf("no pet found. Run 'pocketpet hatch' to create one")
	}

	g := engine.New(cfg, snap, storage.SnapshotKey, engine.Deps{
		Saver:     db,
		Ledger:    db,
		Scheduler: notify.NewLogScheduler(nil),
	})
	g.Resume()
	return g, db, nil
}

// withGame loads the pet, runs fn, and closes the database.
func withGame(fn func(g *engine.Game) error) error {
	g, db, err := loadGame()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(g)
}

var hatchCmd = &cobra.Command{
	Use:   "hatch [name]",
	Short: "Hatch a new pet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")

		var baseDir string
		if global {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = home
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			baseDir = cwd
		}

		dataPath := filepath.Join(baseDir, ".pocketpet", "pet.db")
		if dataPathFlag != "" {
			dataPath = dataPathFlag
		}
		if err := os.MkdirAll(filepath.Dir(dataPath), 0755); err != nil {
			return fmt.Errorf("failed to create pet directory: %w", err)
		}

		cfg := loadConfigFor(dataPath)
		db, err := storage.Open(dataPath)
		if err != nil {
			return fmt.Errorf("failed to open pet database: %w", err)
		}
		defer db.Close()

		if _, exists, _ := db.LoadSnapshot(storage.SnapshotKey, pet.NewSnapshot(cfg)); exists {
			return fmt.Errorf("a pet already exists here. Use 'reroll' to hatch a different one")
		}

		snap := pet.NewSnapshot(cfg)
		if len(args) == 1 && args[0] != "" {
			snap.Pet.Name = args[0]
		}

		g := engine.New(cfg, snap, storage.SnapshotKey, engine.Deps{
			Saver:     db,
			Ledger:    db,
			Scheduler: notify.NewLogScheduler(nil),
		})

		hatchery := hatch.New(cfg, nil, nil)
		result, err := hatchery.Hatch(context.Background())
		if err != nil {
			return fmt.Errorf("hatch failed: %w", err)
		}
		g.AdoptHatch(result)

		out := g.Snapshot()
		fmt.Printf("%s hatched! A level %d %s.\n", out.Pet.Name, out.Pet.Level, out.Pet.Species)
		if len(out.Pet.Traits) > 0 {
			fmt.Printf("Traits: %s\n", joinTraits(out.Pet.Traits))
		}
		return nil
	},
}

func init() {
	hatchCmd.Flags().Bool("global", false, "Hatch the pet in your home directory")
}

var rerollCmd = &cobra.Command{
	Use:   "reroll",
	Short: "Hatch a different pet (keeps name and level)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(func(g *engine.Game) error {
			hatchery := hatch.New(g.Config(), nil, nil)
			result, err := hatchery.Reroll(context.Background())
			if err != nil {
				// Prior pet untouched.
				return fmt.Errorf("reroll failed, your pet is unchanged: %w", err)
			}
			g.AdoptHatch(result)

			snap := g.Snapshot()
			fmt.Printf("%s is now a %s! (level %d kept)\n", snap.Pet.Name, snap.Pet.Species, snap.Pet.Level)
			if len(snap.Pet.Traits) > 0 {
				fmt.Printf("Traits: %s\n", joinTraits(snap.Pet.Traits))
			}
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pet status",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		return withGame(func(g *engine.Game) error {
			snap := g.Snapshot()
			cfg := g.Config()

			wellbeing := health.ComputeWellbeing(snap.Hunger, snap.Happiness, snap.Energy, snap.Hygiene, health.ComputationAverage)
			status := conditions.DeriveStatus(snap.Vitals(), snap.Stamina, wellbeing)

			fmt.Printf("%s is %s\n\n", snap.Pet.Name, conditions.FormatConditions(status.AllOrdered))
			fmt.Println(art.ForSpecies(snap.Pet.Species))

			if verbose {
				fmt.Println()
				fmt.Println(art.StatsCard(snap, cfg.MaxStamina))
				fmt.Printf("\nwellbeing: %d\n", wellbeing)
			}
			return nil
		})
	},
}

func init() {
	statusCmd.Flags().BoolP("verbose", "v", false, "Show the full stats card")
}

// actionCmd builds one care-action command; the engine decides whether
// the action exists and is affordable.
func actionCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGame(func(g *engine.Game) error {
				out := g.Apply(name)
				snap := g.Snapshot()

				switch out.Code {
				case engine.CodeInsufficientStamina:
					fmt.Printf("%s is out of stamina. Visit the store with 'pocketpet store'.\n", snap.Pet.Name)
					return nil
				case engine.CodeInsufficientFunds:
					fmt.Println("Out of coins! Visit the store with 'pocketpet store'.")
					return nil
				case engine.CodeUnknownAction:
					return fmt.Errorf("no such action %q in the balance config", name)
				}

				fmt.Printf("You %s %s. (stamina %d, coins %d)\n", pastTense(name), snap.Pet.Name, snap.Stamina, snap.Coins)
				if out.Evolution != nil {
					fmt.Printf("🎉 Evolution! %s reached level %d and became a %s!\n",
						snap.Pet.Name, out.Evolution.NewLevel, out.Evolution.NewSpecies)
				}
				return nil
			})
		},
	}
}

func pastTense(action string) string {
	switch action {
	case "feed":
		return "fed"
	case "play":
		return "played with"
	case "sleep":
		return "tucked in"
	case "clean":
		return "cleaned"
	}
	return action + "ed"
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Show the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(func(g *engine.Game) error {
			cfg := g.Config()
			snap := g.Snapshot()

			fmt.Printf("Coins: %d   Stamina: %d/%d\n\n", snap.Coins, snap.Stamina, cfg.MaxStamina)
			fmt.Printf("Stamina refill: %d coins ('pocketpet store refill')\n\n", cfg.RefillCost)
			fmt.Println("Coin packs (credited after a verified purchase):")
			for id, coins := range cfg.Products {
				fmt.Printf("  %-36s +%d coins\n", id, coins)
			}
			return nil
		})
	},
}

var storeRefillCmd = &cobra.Command{
	Use:   "refill",
	Short: "Spend coins to refill stamina",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(func(g *engine.Game) error {
			out := g.BuyRefill()
			snap := g.Snapshot()

			switch out.Code {
			case engine.CodeStaminaFull:
				fmt.Println("Your stamina is already at maximum!")
			case engine.CodeInsufficientFunds:
				fmt.Println("You need more coins to buy a refill.")
			default:
				fmt.Printf("Stamina refilled! (stamina %d, coins %d)\n", snap.Stamina, snap.Coins)
			}
			return nil
		})
	},
}

var storeCreditCmd = &cobra.Command{
	Use:   "credit [product-id]",
	Short: "Credit a verified purchase",
	Long: `Credit a verified purchase confirmation to the coin balance.

The transaction id identifies the purchase for replay protection: the
same id is only ever credited once, no matter how often the platform
redelivers the confirmation. When the platform does not supply one, a
fresh id is minted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txnID, _ := cmd.Flags().GetString("txn")
		if txnID == "" {
			txnID = uuid.NewString()
		}
		return withGame(func(g *engine.Game) error {
			out := g.CreditPurchase(args[0], txnID)
			snap := g.Snapshot()

			switch out.Code {
			case engine.CodeUnknownProduct:
				return fmt.Errorf("unknown product %q", args[0])
			case engine.CodeDuplicateTransaction:
				// Already credited; acknowledge silently so the
				// platform stops replaying it.
				fmt.Printf("Transaction %s was already credited.\n", txnID)
				return nil
			}

			fmt.Printf("Success! %d coins added (balance %d, txn %s).\n", out.CoinsCredited, snap.Coins, txnID)
			return nil
		})
	},
}

func init() {
	storeCreditCmd.Flags().String("txn", "", "Transaction id from the purchase confirmation")
	storeCmd.AddCommand(storeRefillCmd)
	storeCmd.AddCommand(storeCreditCmd)
}

var renameCmd = &cobra.Command{
	Use:   "rename [name]",
	Short: "Rename your pet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(func(g *engine.Game) error {
			g.Rename(args[0])
			fmt.Printf("Your pet is now called %s.\n", g.Snapshot().Pet.Name)
			return nil
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay with your pet and watch stamina recharge",
	Long: `Keep the session open and regenerate stamina live, one unit per
recharge interval, until interrupted with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(func(g *engine.Game) error {
			snap := g.Snapshot()
			cfg := g.Config()
			fmt.Printf("Watching %s. Stamina %d/%d, +1 every %s. Ctrl-C to leave.\n",
				snap.Pet.Name, snap.Stamina, cfg.MaxStamina, cfg.RechargeInterval())

			g.StartTicker(func(staminaNow int) {
				fmt.Printf("Stamina recharged: %d/%d\n", staminaNow, cfg.MaxStamina)
			})
			defer g.StopTicker()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			fmt.Println("\nBye!")
			return nil
		})
	},
}

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion script",
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(os.Stdout)
		case "zsh":
			return root.GenZshCompletion(os.Stdout)
		case "fish":
			return root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return root.GenPowerShellCompletion(os.Stdout)
		}
		return fmt.Errorf("unsupported shell: %s", args[0])
	},
}

func joinTraits(traits []string) string {
	out := ""
	for i, t := range traits {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
