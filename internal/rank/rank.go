// Package rank maps star counts onto named tiers.
package rank

import (
	"strings"

	"brain-battle/internal/domain"
)

const (
	// StarsPerTier is the width of every tier band.
	StarsPerTier = 10
	// TierCount is the number of tiers; the last one is open-ended.
	TierCount = 5
)

var names = [TierCount]string{"BEGINNER", "AMATEUR", "PRO", "ADVANCED", "PROFESSIONAL"}

// Of returns the tier for a score. Progress is clamped to 0..StarsPerTier
// for display; the score itself is never capped.
func Of(score int) domain.Tier {
	idx := score / StarsPerTier
	if score < 0 {
		idx = 0
	}
	if idx >= TierCount {
		idx = TierCount - 1
	}
	progress := score - idx*StarsPerTier
	if progress < 0 {
		progress = 0
	}
	if progress > StarsPerTier {
		progress = StarsPerTier
	}
	return domain.Tier{Index: idx, Name: names[idx], Progress: progress}
}

// Name returns the tier name for an index, clamped into range.
func Name(index int) string {
	return Tier(index).Name
}

// Tier returns the tier at an index with zero progress.
func Tier(index int) domain.Tier {
	if index < 0 {
		index = 0
	}
	if index >= TierCount {
		index = TierCount - 1
	}
	return domain.Tier{Index: index, Name: names[index]}
}

// Names lists tier names from lowest to highest.
func Names() []string {
	out := make([]string, TierCount)
	copy(out, names[:])
	return out
}

// StarBar renders progress as filled and empty stars.
func StarBar(progress int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > StarsPerTier {
		progress = StarsPerTier
	}
	return strings.Repeat("★", progress) + strings.Repeat("☆", StarsPerTier-progress)
}
