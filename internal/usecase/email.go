package usecase

import (
	"regexp"
	"strings"
	"unicode"
)

// Provedores de caixa postal conhecidos. Um desses com TLD curto suspeito
// (gmail.co, hotmail.io) é quase sempre erro de digitação do TLD real.
var mailboxProviderLabels = map[string]bool{
	"gmail": true, "googlemail": true, "yahoo": true, "hotmail": true, "outlook": true,
	"aol": true, "icloud": true, "mail": true, "live": true, "msn": true, "gmx": true,
}

var suspiciousShortTLDs = map[string]bool{
	"co": true, "me": true, "tv": true, "io": true, "to": true, "cm": true, "om": true,
}

var tldRe = regexp.MustCompile(`^[a-zA-Z0-9]{2,6}$`)

// ValidateEmail aplica as regras em ordem; a primeira falha rejeita.
// Nunca corrige: email inválido é só contado, jamais consertado.
func ValidateEmail(email string) *ValidationError {
	reject := func(msg string) *ValidationError {
		return &ValidationError{Field: "email", Message: msg, Value: email}
	}

	if email == "" {
		return reject("is required")
	}
	for _, r := range email {
		if r > unicode.MaxASCII {
			return reject("must be ASCII only")
		}
		if unicode.IsSpace(r) {
			return reject("must not contain whitespace")
		}
	}

	if strings.Count(email, "@") != 1 {
		return reject("must contain exactly one @")
	}
	at := strings.IndexByte(email, '@')
	local, domain := email[:at], email[at+1:]
	if local == "" || domain == "" {
		return reject("local part and domain are required")
	}

	if !strings.Contains(domain, ".") {
		return reject("domain must contain a dot")
	}
	if strings.Contains(domain, "..") {
		return reject("domain must not contain consecutive dots")
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return reject("domain must not start or end with a dot")
	}
	if strings.HasSuffix(domain, ",") || strings.HasSuffix(domain, ";") {
		return reject("domain must not end with punctuation")
	}

	labels := strings.Split(domain, ".")
	tld := labels[len(labels)-1]
	if !tldRe.MatchString(tld) {
		return reject("top-level domain must be 2-6 alphanumeric characters")
	}

	sld := strings.ToLower(labels[len(labels)-2])
	if mailboxProviderLabels[sld] && suspiciousShortTLDs[strings.ToLower(tld)] {
		return reject("looks like a mistyped mailbox provider domain")
	}

	return nil
}

// EmailDomain devolve a parte depois do @, em minúsculas.
func EmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
