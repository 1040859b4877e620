package battle

import (
	"crypto/rand"
	"strings"
)

// Alfabeto de 32 símbolos, sem I, L, O e U para sobreviver a digitação
// humana. Com 10 caracteres o código carrega 50 bits de entropia — acima
// do piso de 48 bits exigido para códigos não adivinháveis.
const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ0123456789"
	codeLength   = 10
)

// GenerateCode produz um novo código de batalha aleatório.
func GenerateCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand nunca falha em plataformas suportadas.
		panic("battle: crypto/rand unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

// NormalizeCode torna o código insensível a caixa e espaços acidentais.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
