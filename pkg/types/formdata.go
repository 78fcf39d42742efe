package types

import (
	"fmt"
	"strconv"
	"strings"
)

// FormData holds one submission's answers. Forms are tenant-defined, so the
// key set is not fixed and naming varies across tenants ("telefone" vs
// "phone"). Accessors try an ordered candidate list first and fall back to a
// substring match over the actual keys.
type FormData map[string]any

var (
	phoneKeys = []string{"telefone", "phone", "celular", "whatsapp", "telefone_contato"}
	emailKeys = []string{"email", "contato_email", "e-mail", "email_contato"}
	nameKeys  = []string{"nome", "name", "nome_completo", "full_name"}
)

// Lookup returns the first non-empty string value among candidates, then
// among keys containing any candidate as a substring (case-insensitive).
func (d FormData) Lookup(candidates ...string) (string, bool) {
	for _, k := range candidates {
		if v, ok := d.str(k); ok {
			return v, true
		}
	}
	for key := range d {
		lk := strings.ToLower(key)
		for _, c := range candidates {
			if strings.Contains(lk, strings.ToLower(c)) {
				if v, ok := d.str(key); ok {
					return v, true
				}
			}
		}
	}
	return "", false
}

func (d FormData) Phone() (string, bool) { return d.Lookup(phoneKeys...) }
func (d FormData) Email() (string, bool) { return d.Lookup(emailKeys...) }
func (d FormData) Name() (string, bool)  { return d.Lookup(nameKeys...) }

func (d FormData) str(key string) (string, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	case float64:
		// JSON numbers decode to float64; large ids (phones) must not come
		// out in scientific notation
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int, int64, bool:
		return fmt.Sprintf("%v", s), true
	default:
		return "", false
	}
}

// Strings flattens the data to string values for template variable bags and
// outbound payloads. Non-scalar values are skipped.
func (d FormData) Strings() map[string]string {
	out := make(map[string]string, len(d))
	for k := range d {
		if v, ok := d.str(k); ok {
			out[k] = v
		}
	}
	return out
}
