// Package github implements the search crawler on top of the GitHub
// code-search API. It owns pagination, rate limiting and the
// conversion of loosely-typed API responses into strictly-defined
// domain records.
package github
