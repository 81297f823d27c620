package usecase

import (
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// GroupByEmail agrupa os elegíveis por email, preservando a ordem de primeira aparição.
func GroupByEmail(records []entity.SourceGuestRecord) []entity.EmailGroup {
	index := make(map[string]int)
	var groups []entity.EmailGroup

	for _, rec := range records {
		email := strings.ToLower(rec.Email)
		i, ok := index[email]
		if !ok {
			i = len(groups)
			index[email] = i
			groups = append(groups, entity.EmailGroup{Email: email})
		}
		g := &groups[i]
		g.Records = append(g.Records, rec)

		key := NameKey(rec.FirstName, rec.LastName)
		if !containsString(g.NameKeys, key) {
			g.NameKeys = append(g.NameKeys, key)
			g.DistinctNames = append(g.DistinctNames, rec.FullName())
		}
	}

	return groups
}

// DetectConflicts separa os grupos consistentes dos emails compartilhados por pessoas diferentes.
// Nenhum membro de um grupo em conflito pode ser sincronizado automaticamente.
func DetectConflicts(groups []entity.EmailGroup) (consistent, conflicts []entity.EmailGroup) {
	for _, g := range groups {
		if g.IsConflict() {
			conflicts = append(conflicts, g)
			continue
		}
		consistent = append(consistent, g)
	}
	return consistent, conflicts
}

// membersByNameKey devolve os registros do grupo cujo nome bate com a chave.
func membersByNameKey(g entity.EmailGroup, key string) (match, rest []entity.SourceGuestRecord) {
	for _, rec := range g.Records {
		if NameKey(rec.FirstName, rec.LastName) == key {
			match = append(match, rec)
		} else {
			rest = append(rest, rec)
		}
	}
	return match, rest
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
