// Package art renders the terminal status card. Presentation only: it
// reads engine state and never mutates it.
package art

import (
	"fmt"
	"strings"

	"github.com/pocketpet/pocketpet/internal/pet"
)

var speciesArt = map[string]string{
	"Duck": `  __
<(o )___
 ( ._> /
  '---'`,
	"Flamingo": `  _
 (o)>
  \_\
   ||
   /\`,
	"Fox": ` /\   /\
(  o.o  )
 \  ^  /`,
	"Wolf": ` /\___/\
( >w.w< )
 \  ^  /`,
	"Cat": ` /\_/\
( o.o )
 > ^ <`,
	"Dragon": `   __        _
  { \,"-.__/ \
   \_/ ~o.o~ |
     \_~(")~_/`,
}

var defaultArt = ` (\_/)
 (o.o)
 (> <)`

// ForSpecies returns the ASCII badge for a species, falling back to a
// generic critter for species without dedicated art.
func ForSpecies(species string) string {
	if a, ok := speciesArt[species]; ok {
		return a
	}
	return defaultArt
}

// Bar renders a 10-cell meter for a [0, 100] stat.
func Bar(value int) string {
	filled := value / 10
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 10-filled) + "]"
}

// StatsCard renders the vitals and economy block shown by status -v.
func StatsCard(snap pet.Snapshot, maxStamina int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "hunger:    %s %3d\n", Bar(snap.Hunger), snap.Hunger)
	fmt.Fprintf(&b, "mood:      %s %3d\n", Bar(snap.Happiness), snap.Happiness)
	fmt.Fprintf(&b, "energy:    %s %3d\n", Bar(snap.Energy), snap.Energy)
	fmt.Fprintf(&b, "hygiene:   %s %3d\n", Bar(snap.Hygiene), snap.Hygiene)
	fmt.Fprintf(&b, "stamina:   %d/%d\n", snap.Stamina, maxStamina)
	fmt.Fprintf(&b, "coins:     %d\n", snap.Coins)
	fmt.Fprintf(&b, "level:     %d (%s)\n", snap.Pet.Level, snap.Pet.Species)
	fmt.Fprintf(&b, "xp:        %d/100", snap.XP)
	return b.String()
}
