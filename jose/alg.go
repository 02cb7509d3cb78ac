// Copyright (c) 2025 Justin Cranford

package jose

import joseJwa "github.com/lestrrat-go/jwx/v3/jwa"

// AlgECDHESA256KW is the sole JWE key-management algorithm this protocol
// uses: per-recipient ephemeral-static ECDH key agreement wrapping a
// content-encryption key with AES-256 key wrap.
var AlgECDHESA256KW = joseJwa.ECDH_ES_A256KW()

// EncA256GCM is the sole JWE content-encryption algorithm this protocol
// uses.
var EncA256GCM = joseJwa.A256GCM()
