// Package organize defines the shared data model for the organize pipeline.
//
// The pipeline is strictly sequential: the scanner yields Entry values, the
// planner turns them into Move decisions, and the executor applies those
// decisions and reports a Summary. Entry and Move are immutable once
// produced; the Context carries the full run configuration by reference and
// is never mutated after construction.
//
// Error classification sentinels live here as well so every stage wraps
// failures the same way and callers can branch with errors.Is.
package organize
