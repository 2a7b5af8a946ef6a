// Package token defines the lexical vocabulary of unit source files.
package token
