// Package calculator implements the expense split engine.
//
// Every function is pure: it takes the caller's current share entries and
// returns a fresh slice, never mutating its inputs. The caller owns the state
// between calls and replaces its copy with each result (last write wins).
package calculator

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitshare/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Initialize builds the share entries for a new split.
//
// A total that is not positive, or an empty participant list, yields an empty
// split rather than an error. payerID may be empty when no payer is chosen yet.
//
// Equal splits are truncated to the cent and the rounding residue goes to the
// first participant, so the amounts always sum to the total exactly:
//
//	100 / 3 -> 33.34, 33.33, 33.33
//
// Exact splits round each even share independently, so their initial sum may
// be off by a few cents; ComputeAggregates reports that instead of fixing it.
func Initialize(strategy models.Strategy, total float64, participants []models.Participant, payerID string) []models.ShareEntry {
	if !(total > 0) || math.IsInf(total, 0) || len(participants) == 0 {
		return []models.ShareEntry{}
	}

	totalDec := decimal.NewFromFloat(total)
	n := decimal.NewFromInt(int64(len(participants)))

	entries := make([]models.ShareEntry, len(participants))
	for i, p := range participants {
		entries[i] = models.ShareEntry{
			ParticipantID: p.ID,
			Name:          p.Name,
			Email:         p.Email,
			ImageURL:      p.ImageURL,
			IsPayer:       payerID != "" && p.ID == payerID,
		}
	}

	switch strategy {
	case models.StrategyPercentage:
		even := 100 / float64(len(participants))
		for i := range entries {
			entries[i].Percentage = even
			entries[i].Amount = percentOf(total, even)
		}

	case models.StrategyExact:
		even := totalDec.Div(n).Round(2)
		pct := even.Div(totalDec).Mul(hundred).InexactFloat64()
		for i := range entries {
			entries[i].Amount = even.InexactFloat64()
			entries[i].Percentage = pct
		}

	default:
		// Equal: truncate to the cent, first participant absorbs the residue.
		raw := totalDec.Mul(hundred).Div(n).Floor().Div(hundred)
		remainder := totalDec.Sub(raw.Mul(n)).Round(2)
		for i := range entries {
			share := raw
			if i == 0 {
				share = raw.Add(remainder)
			}
			entries[i].Amount = share.InexactFloat64()
			entries[i].Percentage = share.Div(totalDec).Mul(hundred).InexactFloat64()
		}
	}

	return entries
}

// UpdatePercentage sets one participant's percentage and derives its amount.
// Only meaningful for percentage splits. The percentage is clamped to
// [0, 100]; NaN becomes 0. Entries for other participants are copied as-is,
// and an unknown participantID returns an unchanged copy.
func UpdatePercentage(entries []models.ShareEntry, total float64, participantID string, percentage float64) []models.ShareEntry {
	pct := clampPercentage(percentage)

	updated := slices.Clone(entries)
	for i := range updated {
		if updated[i].ParticipantID != participantID {
			continue
		}
		updated[i].Percentage = pct
		updated[i].Amount = percentOf(total, pct)
	}
	return updated
}

// UpdateExactAmount sets one participant's amount and derives its percentage.
// Only meaningful for exact splits. Non-finite and negative amounts become 0;
// the amount is kept to the cent. The percentage is 0 when total is not
// positive.
func UpdateExactAmount(entries []models.ShareEntry, total float64, participantID string, amount float64) []models.ShareEntry {
	amt := sanitizeAmount(amount)

	updated := slices.Clone(entries)
	for i := range updated {
		if updated[i].ParticipantID != participantID {
			continue
		}
		updated[i].Amount = amt.InexactFloat64()
		updated[i].Percentage = 0
		if total > 0 && !math.IsInf(total, 0) {
			updated[i].Percentage = amt.Div(decimal.NewFromFloat(total)).Mul(hundred).InexactFloat64()
		}
	}
	return updated
}

// percentOf returns total * pct / 100.
func percentOf(total, pct float64) float64 {
	if !(total > 0) || math.IsInf(total, 0) {
		return 0
	}
	return decimal.NewFromFloat(total).Mul(decimal.NewFromFloat(pct)).Div(hundred).InexactFloat64()
}

func clampPercentage(pct float64) float64 {
	switch {
	case math.IsNaN(pct):
		return 0
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

func sanitizeAmount(amount float64) decimal.Decimal {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).Round(2)
}
