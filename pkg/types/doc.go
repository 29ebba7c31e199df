// Package types defines the value types, the Session contract for the remote
// layout database, the alignment handle registry, and the standard errors
// shared by the rodlayout packages.
package types
