// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package credential owns the password credentials of a user record: salt
// generation, salted keyed hashing and authentication.
//
// A [Manager] is constructed explicitly and injected into the components that
// need it (the auth service). It holds only read-only state and is safe for
// concurrent use. The package does not know about persistence; writing the
// salt and hash pair back to storage atomically is the repository's job.
//
// Hash follows a sentinel convention for the degenerate input: an empty
// plaintext hashes to the empty string with a nil error, which callers must
// read as "no password", never as a valid hash. Primitive failures are not
// folded into that sentinel; they are reported as [ErrHashingFailure].
package credential
