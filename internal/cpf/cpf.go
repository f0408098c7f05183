package cpf

import "strings"

// Normalize remove tudo que não for dígito.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate verifica os dois dígitos verificadores do CPF.
// Retorna false para qualquer entrada malformada, nunca panica.
func Validate(raw string) bool {
	digits := Normalize(raw)
	if len(digits) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	d1 := (sum * 10) % 11
	if d1 == 10 || d1 == 11 {
		d1 = 0
	}
	if d1 != int(digits[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	d2 := (sum * 10) % 11
	if d2 == 10 || d2 == 11 {
		d2 = 0
	}
	return d2 == int(digits[10]-'0')
}

// PadImport normaliza um valor vindo de importação em massa.
// Valores com 1 a 10 dígitos ganham zeros à esquerda (planilhas costumam
// derrubar o zero inicial). Retorna ok=false quando não há como recuperar
// um CPF de 11 dígitos.
func PadImport(raw string) (string, bool) {
	digits := Normalize(raw)
	if len(digits) == 0 || len(digits) > 11 {
		return "", false
	}
	if len(digits) < 11 {
		digits = strings.Repeat("0", 11-len(digits)) + digits
	}
	return digits, true
}

// Format aplica a máscara 000.000.000-00 apenas para exibição.
func Format(raw string) string {
	digits := Normalize(raw)
	if len(digits) != 11 {
		return raw
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}

// FormatTelefone aplica a máscara (00) 00000-0000.
func FormatTelefone(raw string) string {
	digits := Normalize(raw)
	if len(digits) != 11 {
		return raw
	}
	return "(" + digits[0:2] + ") " + digits[2:7] + "-" + digits[7:11]
}
