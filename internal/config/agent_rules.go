package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
	"gopkg.in/yaml.v3"
)

// LoadAgentRules lê a lista versionada de regras de agentes. Arquivo ausente cai nas
// regras embutidas; arquivo presente e inválido é erro.
func LoadAgentRules(path string) (entity.AgentRules, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("⚠️ Regras de agentes não encontradas em %s, usando regras embutidas", path)
		return entity.DefaultAgentRules(), nil
	}
	if err != nil {
		return entity.AgentRules{}, fmt.Errorf("agent rules: read %s: %w", path, err)
	}
	return ParseAgentRules(raw)
}

func ParseAgentRules(raw []byte) (entity.AgentRules, error) {
	var rules entity.AgentRules
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return entity.AgentRules{}, fmt.Errorf("agent rules: parse: %w", err)
	}

	if strings.TrimSpace(rules.Version) == "" {
		return entity.AgentRules{}, errors.New("agent rules: campo version é obrigatório")
	}
	if len(rules.BookingProxyMarkers)+len(rules.ExpediaProxyMarkers)+len(rules.AgentKeywords) == 0 {
		return entity.AgentRules{}, errors.New("agent rules: nenhuma regra definida")
	}

	return rules, nil
}
