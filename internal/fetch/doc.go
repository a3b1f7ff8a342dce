// Package fetch downloads pre-built artifacts of externally maintained
// contracts and hands them to the artifact writer.
//
// Every request is bound to the caller's context. The per-request timeout,
// the number of attempts and the pause between attempts come from
// config.FetchSettings; by default there is no timeout and no retry.
package fetch
