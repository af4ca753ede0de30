// Package nrtmeta reads the camera's non-real-time clip metadata documents
// (the C*M01.XML files written next to each clip).
//
// Documents are parsed once with xmlquery and never mutated. Lookups go
// through namespace-aware XPath expressions bound to the ns/lib/xsi prefixes
// of the professional disc schema. A missing element is represented by a nil
// *Element, and every Element method is nil-safe, so callers can chain lookups
// and treat absence as the common, silent case.
package nrtmeta
