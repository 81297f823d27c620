package entity

// AgentRules é dado de referência versionado: domínios de proxy de OTA,
// nomes de placeholder e palavras-chave de agências. Vem de arquivo, não do código.
type AgentRules struct {
	Version             string   `yaml:"version" json:"version"`
	BookingProxyMarkers []string `yaml:"booking_proxy_markers" json:"booking_proxy_markers"`
	ExpediaProxyMarkers []string `yaml:"expedia_proxy_markers" json:"expedia_proxy_markers"`
	PlaceholderNames    []string `yaml:"placeholder_names" json:"placeholder_names"`
	AgentKeywords       []string `yaml:"agent_keywords" json:"agent_keywords"`
}

// DefaultAgentRules é usado só quando nenhum arquivo de regras foi configurado.
func DefaultAgentRules() AgentRules {
	return AgentRules{
		Version:             "builtin",
		BookingProxyMarkers: []string{"guest.booking.com"},
		ExpediaProxyMarkers: []string{"expediapartnercentral.com", "m.expediapartnercentral.com"},
		PlaceholderNames:    []string{"tbc", "tba", "n/a", "unknown", "guest"},
		AgentKeywords: []string{
			"travel", "tour", "viajes", "viagens", "turismo", "dmc",
			"agency", "agencia", "operator", "concierge", "hotelbeds", "despegar",
		},
	}
}
