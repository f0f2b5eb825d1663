// Package schema defines the canonical form tree consumed by the recovery,
// mobile-optimization, and document pipelines: a Form owns ordered Pages,
// Pages own Elements, and Elements may recursively own further Elements
// (panels) or matrix Rows that own Elements of their own. Attributes the
// package does not model explicitly survive round trips through the Extra
// extension bag.
package schema
