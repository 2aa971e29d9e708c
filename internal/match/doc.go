// Package match provides name normalization, Levenshtein distance and
// candidate ranking for Avro field names.
//
// It backs the "did you mean" hints attached to path segments that do not
// resolve against a schema.
//
// Key functions:
//   - NormalizeIdent: folds camelCase, snake_case and kebab-case to one form
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: orders candidate names by similarity to a target
//   - Suggest: picks the closest candidate above a minimum score
package match
