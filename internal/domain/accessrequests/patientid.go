package accessrequests

import "strings"

// patientIDWidth es el ancho fijo del sufijo numérico del id canónico.
const patientIDWidth = 4

// NormalizePatientID canonicaliza un identificador de paciente tipeado a mano:
// trim + mayúsculas, prefijo alfabético inicial + sufijo numérico final,
// y el sufijo se rellena con ceros a la izquierda hasta 4 posiciones
// ("p9" => "P0009", "P009" => "P0009", "p0042" => "P0042").
// Un input sin sufijo numérico queda en mayúsculas tal cual.
// Es idempotente: normalizar dos veces da el mismo resultado.
//
// Todo punto de entrada que acepte un patient id como texto libre
// (crear pedido, búsqueda) debe pasar por acá, nunca recortar inline.
func NormalizePatientID(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// Prefijo alfabético: letras consecutivas desde el inicio.
	p := 0
	for p < len(s) && s[p] >= 'A' && s[p] <= 'Z' {
		p++
	}

	// Sufijo numérico: dígitos consecutivos desde el final.
	d := len(s)
	for d > p && s[d-1] >= '0' && s[d-1] <= '9' {
		d--
	}

	digits := s[d:]
	if digits == "" {
		return s
	}

	if len(digits) < patientIDWidth {
		digits = strings.Repeat("0", patientIDWidth-len(digits)) + digits
	}
	return s[:p] + digits
}
