package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

const (
	scoreSameName     = 0.5
	scoreSameCity     = 0.2
	scoreCloseCheckIn = 0.3
	scoreNearCheckIn  = 0.1
	closeCheckInDays  = 3
	nearCheckInDays   = 14
)

// DuplicateScore estima de 0 a 1 a chance de dois registros serem a mesma pessoa.
// Serve só para anotar a fila de revisão; nunca decide sozinho.
func DuplicateScore(a, b entity.SourceGuestRecord) float64 {
	score := 0.0

	if NameKey(a.FirstName, a.LastName) == NameKey(b.FirstName, b.LastName) {
		score += scoreSameName
	}

	if a.Address.City != "" && nameToken(a.Address.City) == nameToken(b.Address.City) {
		score += scoreSameCity
	}

	if a.CheckIn != nil && b.CheckIn != nil {
		days := math.Abs(a.CheckIn.Sub(*b.CheckIn).Hours() / 24)
		switch {
		case days <= closeCheckInDays:
			score += scoreCloseCheckIn
		case days <= nearCheckInDays:
			score += scoreNearCheckIn
		}
	}

	return math.Min(score, 1)
}

// likelyDuplicates descreve os pares do grupo com pontuação alta, para o revisor.
func likelyDuplicates(records []entity.SourceGuestRecord, threshold float64) string {
	var pairs []string
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if s := DuplicateScore(records[i], records[j]); s >= threshold {
				pairs = append(pairs, fmt.Sprintf("%s~%s (%.2f)", records[i].SourceID, records[j].SourceID, s))
			}
		}
	}
	return strings.Join(pairs, ", ")
}
