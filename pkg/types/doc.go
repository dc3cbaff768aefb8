// Package types defines the query-result model shared by the CLI, the core
// and the server. A result is an ordered list of Series; each Series holds
// typed Fields whose values are kept as received (numbers, strings, nil).
// Nothing in this module mutates a Series after it has been decoded.
package types
