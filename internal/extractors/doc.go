// Package extractors holds what every bill extractor shares: the text
// normaliser that turns raw text into lines, and the ordered strategy
// cascade used to fill each field.
//
// Concrete extractors live in sub-packages:
//
//   - cemig: label-aware extractor for CEMIG bills (the specialized path)
//   - generic: coarse line splitter with a regex rescue pass (the fallback path)
package extractors
