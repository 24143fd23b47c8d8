// Package hatch produces a new avatar identity for the pet. It is the
// only place in the game that uses randomness, and it sits at the
// boundary to the image-generation and asset-hosting collaborators.
package hatch

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pocketpet/pocketpet/internal/pet"
)

// Testable random function, overridden in tests.
var RandIntn = rand.Intn

// Generator renders avatar image bytes from a species prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Uploader stores generated image bytes and returns a permanent URL.
type Uploader interface {
	Upload(ctx context.Context, image []byte) (string, error)
}

// Result is the identity tuple a hatch or reroll produces. The engine
// merges it into the pet; name and level are never part of it.
type Result struct {
	Species  string
	Traits   []string
	Energy   int
	ImageRef string
}

// Hatchery creates hatch results. A nil generator or uploader skips
// avatar generation and leaves ImageRef empty, which keeps the game
// playable without the external services configured.
type Hatchery struct {
	cfg pet.Config
	gen Generator
	up  Uploader
}

func New(cfg pet.Config, gen Generator, up Uploader) *Hatchery {
	return &Hatchery{cfg: cfg, gen: gen, up: up}
}

// Hatch produces the identity for a brand-new level-1 pet. Species is
// level-indexed from the evolution order; the table stays the single
// source of truth for what a pet at a given level looks like.
func (h *Hatchery) Hatch(ctx context.Context) (Result, error) {
	return h.build(ctx, h.cfg.SpeciesFor(1))
}

// Reroll produces a replacement identity for an existing pet. As a
// convenience the species is drawn randomly from the evolution order;
// it snaps back to the level-indexed entry on the next evolution.
func (h *Hatchery) Reroll(ctx context.Context) (Result, error) {
	species := h.cfg.EvolutionOrder[RandIntn(len(h.cfg.EvolutionOrder))]
	return h.build(ctx, species)
}

func (h *Hatchery) build(ctx context.Context, species string) (Result, error) {
	imageRef, err := h.generateAvatar(ctx, species)
	if err != nil {
		// Prior pet state stays untouched; the caller simply does not
		// adopt anything.
		return Result{}, err
	}

	return Result{
		Species:  species,
		Traits:   SampleTraits(h.cfg.TraitPool, 3),
		Energy:   60 + RandIntn(41),
		ImageRef: imageRef,
	}, nil
}

func (h *Hatchery) generateAvatar(ctx context.Context, species string) (string, error) {
	if h.gen == nil || h.up == nil {
		return "", nil
	}

	prompt := fmt.Sprintf(
		"A cute 3D face of a %s, in the exact style of Apple iOS Memoji and Animoji. "+
			"Clean minimalist white background, soft studio lighting, high resolution, "+
			"glossy finish, adorable, highly detailed 3D render.", species)

	img, err := h.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("avatar generation failed: %w", err)
	}
	url, err := h.up.Upload(ctx, img)
	if err != nil {
		return "", fmt.Errorf("avatar upload failed: %w", err)
	}
	return url, nil
}

// SampleTraits draws up to n distinct traits from the pool.
func SampleTraits(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}

	picked := append([]string(nil), pool...)
	for i := 0; i < n; i++ {
		j := i + RandIntn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n]
}
