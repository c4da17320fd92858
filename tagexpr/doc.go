// Package tagexpr implements the tag-boolean query language used to
// filter documents by tag membership, plus the small weight-assignment
// language used for weighted sorting.
//
// The boolean grammar supports AND/OR/NOT (words, case-insensitive, or
// the symbols & | !), parentheses, bare-word tags, and quoted multi-word
// tags. Parsing is deliberately tolerant: the language is typed live into
// a filter box, so unmatched parentheses are absorbed and malformed
// expressions degrade to permissive defaults instead of failing.
package tagexpr
