package domain

// CredentialKind selects how a request authenticates against the gateway.
type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialBearer
	CredentialAdmin
)

// String returns the string representation of the credential kind
func (k CredentialKind) String() string {
	switch k {
	case CredentialBearer:
		return "bearer"
	case CredentialAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Credential is either a user bearer token or the privileged admin secret.
// A request carries at most one of them.
type Credential struct {
	Kind  CredentialKind
	Value string
}

// BearerCredential wraps a user session token. An empty token yields no credential.
func BearerCredential(token string) Credential {
	if token == "" {
		return Credential{}
	}
	return Credential{Kind: CredentialBearer, Value: token}
}

// AdminCredential wraps the admin secret. An empty secret yields no credential.
func AdminCredential(secret string) Credential {
	if secret == "" {
		return Credential{}
	}
	return Credential{Kind: CredentialAdmin, Value: secret}
}

// IsZero reports whether the credential carries nothing.
func (c Credential) IsZero() bool {
	return c.Kind == CredentialNone || c.Value == ""
}

// String never reveals the secret value.
func (c Credential) String() string {
	return c.Kind.String()
}
