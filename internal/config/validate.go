package config

import (
	"errors"
	"fmt"
	"net/url"
)

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port inválida: %d", c.Server.Port))
	}
	if u, err := url.Parse(c.CRM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("crm.base_url inválida: %q", c.CRM.BaseURL))
	}
	if c.CRM.Concurrency <= 0 {
		errs = append(errs, errors.New("crm.concurrency deve ser positivo"))
	}
	if c.Sync.IdentityBatchSize <= 0 || c.Sync.StayBatchSize <= 0 || c.Sync.ExtractBatchSize <= 0 {
		errs = append(errs, errors.New("tamanhos de lote do sync devem ser positivos"))
	}
	if c.Sync.Interval < 0 {
		errs = append(errs, errors.New("sync.interval não pode ser negativo"))
	}
	if c.Mail.Host != "" && len(c.Mail.RecipientList()) == 0 {
		errs = append(errs, errors.New("mail.recipients é obrigatório quando mail.host está configurado"))
	}

	return errors.Join(errs...)
}
