package pgproto3

import (
	"crypto/md5" //nolint:gosec // mandated by the PostgreSQL wire protocol, not a choice of hash
	"encoding/hex"
)

// PasswordMode is the negotiated form of the PasswordMessage payload.
type PasswordMode int

const (
	PasswordModeUnset PasswordMode = iota
	PasswordModeCleartext
	PasswordModeMD5
)

// md5Password computes the MD5-salted password response:
// md5( lowercase-hex( md5(password||user) ) || salt ), prefixed by
// the literal "md5".
func md5Password(user, password string, salt [4]byte) string {
	inner := md5.Sum([]byte(password + user)) //nolint:gosec // protocol-mandated
	innerHex := hex.EncodeToString(inner[:])
	outer := md5.Sum(append([]byte(innerHex), salt[:]...)) //nolint:gosec // protocol-mandated
	return "md5" + hex.EncodeToString(outer[:])
}

// authResult is the outcome of decoding one AuthenticationRequest
// frame, returned to Session.handleAuthentication.
type authResult struct {
	kind EventKind // EventAuthenticated or EventPassword
	mode PasswordMode
	salt [4]byte
}

// decodeAuthenticationRequest interprets an 'R' message payload: a
// 4-byte sub-code, then sub-code-specific data. Unsupported variants
// (Kerberos, SCM, GSS, SSPI) are a protocol-fatal error — they are
// recognized, never silently ignored.
func decodeAuthenticationRequest(body []byte) (authResult, error) {
	r := newReadBuf(body)

	code, err := r.int32()
	if err != nil {
		return authResult{}, err
	}

	switch code {
	case authOK:
		return authResult{kind: EventAuthenticated}, nil
	case authCleartextPassword:
		return authResult{kind: EventPassword, mode: PasswordModeCleartext}, nil
	case authMD5Password:
		saltBytes, err := r.bytes(4)
		if err != nil {
			return authResult{}, err
		}
		var salt [4]byte
		copy(salt[:], saltBytes)
		return authResult{kind: EventPassword, mode: PasswordModeMD5, salt: salt}, nil
	case authKerberosV5, authSCMCredential, authGSS, authGSSContinue, authSSPI:
		return authResult{}, ErrUnsupportedAuth
	default:
		return authResult{}, ErrUnsupportedAuth
	}
}
