// Package ptbr parses Brazilian Portuguese numbers, month names and dates
// the way they appear on utility bills.
//
// Every parser fails soft: unparsable input yields a zero value and false,
// never a panic or an error.
package ptbr
