// Package rule parses ranking rules and applies them to a table.
//
// A rule specification has the form
//
//	<direction>;<limit>;<postfix-expression>
//
// where direction contains "min" (ascending) or "max" (descending), limit is
// an integer or empty for unbounded, and the expression is handed to
// package expr. Parsing happens once; Apply may be called any number of times
// and from several goroutines.
//
// Apply scores every row, sorts stably by score in the rule's direction and
// keeps the first limit rows. Any failure aborts the rule: no partial
// selection is ever returned.
package rule
