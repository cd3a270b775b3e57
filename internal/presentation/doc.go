// Package presentation derives display-ready values from provider records.
// Every function is pure and total: missing or malformed input degrades to a safe
// default instead of an error.
package presentation
