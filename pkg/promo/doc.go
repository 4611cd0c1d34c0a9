// Package promo resolves the single currently-active promotion window from a
// small ordered table.
//
// Rows are evaluated in stored order; the first row whose end date (inclusive
// through the whole day) has not passed wins. Rows with a missing or
// unparseable date are skipped. The resolved decision, including "no active
// promotion", is cached for ten minutes to bound table reads; edits to the
// table can therefore stay invisible for up to one cache window.
package promo
