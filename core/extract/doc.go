// Package extract turns expanded registry markup into raw records.
//
// A registry page is a list of cards. Each card carries a set of labeled
// description rows, an optional nested table of reissue rows, and optional
// capability tables introduced by bold section headers. The shape of a card
// differs between registries, so every registry supplies two things:
//
//   - a Layout, naming the CSS selectors for blocks, names, rows and tables;
//   - a Dictionary, an ordered list of substring rules that map a row label
//     onto an enumerated Field.
//
// Extraction is tolerant. Labels that match no rule are kept only in the raw
// label map, a missing nested table yields no rows, and a page without blocks
// yields an empty result. Only markup that cannot be parsed at all is an error.
package extract
