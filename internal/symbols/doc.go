// Package symbols reads the `symbol file` listing produced by the symbol
// finder tool and turns it into a lookup index that maps a symbol to the
// header declaring it.
package symbols
