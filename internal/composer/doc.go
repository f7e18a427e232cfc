// Package composer is the entry point of the advice pipeline. It runs the
// gap analysis once for a pair of countries, asks the rule engine for
// advice in both directions and adds the mutual-understanding summary.
package composer
