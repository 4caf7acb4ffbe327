// Package engine runs a set of ranking rules over one table and intersects
// their selections.
//
// Run parses and applies each rule in turn, either one after another or
// concurrently (WithParallel).
// Rules only read the shared table and each writes its own selection, so no
// locking is needed. The intersection always uses rule declaration order,
// whatever order the rules finished in.
//
// Every failure is returned as a *RuleError carrying the 1-based ordinal of
// the rule among all supplied rules. When several rules fail concurrently the
// lowest ordinal is reported, matching what sequential evaluation would
// report.
package engine
