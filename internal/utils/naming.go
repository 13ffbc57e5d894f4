package utils

import (
	"strings"
	"unicode"
)

// ClassName formats a model name as an exported Go identifier.
// Words are split on anything that is not a letter or a digit, each word is
// capitalized and the rest of it lowered: "order line" and "ORDER_LINE" both give "OrderLine".
func ClassName(name string) string {
	var b strings.Builder
	for _, word := range splitWords(name) {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// AttributeName formats a model name as an unexported Go identifier: "Order Line" gives "orderline"
func AttributeName(name string) string {
	var b strings.Builder
	for _, word := range splitWords(name) {
		b.WriteString(strings.ToLower(word))
	}
	return b.String()
}

// ConstantName formats a model name in upper snake case: "order line" gives "ORDER_LINE"
func ConstantName(name string) string {
	words := splitWords(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word)
	}
	return strings.Join(words, "_")
}

// FileName formats a model name as a generated file base name: "Order Line" gives "order_line"
func FileName(name string) string {
	words := splitWords(name)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

func splitWords(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
