// Package textutil normalizes and compares free text from podcast metadata.
//
// Normalize folds the formatting differences that commonly separate two
// copies of the same title: Unicode compatibility forms, letter case and
// runs of whitespace. Fingerprints turn longer text (author lists, feed names,
// descriptions) into token frequency vectors compared by cosine similarity,
// which ignores word order.
package textutil
