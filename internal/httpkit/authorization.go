package httpkit

import (
	"fmt"
	"sort"
	"strings"
)

// Credential is the Credential= component of an Authorization header:
// access key, signing date, region, and service (always "s3" here).
type Credential struct {
	AccessKeyID string
	Date        string // YYYYMMDD
	Region      string
	Service     string
}

// Scope re-emits "<date>/<region>/<service>/aws4_request".
func (c Credential) Scope() string {
	return fmt.Sprintf("%s/%s/%s/aws4_request", c.Date, c.Region, c.Service)
}

// AuthorizationV4 is the parsed form of a SigV4 Authorization header.
type AuthorizationV4 struct {
	Algorithm     string
	Credential    Credential
	SignedHeaders []string // sorted, lowercase
	Signature     string   // 64 lowercase hex chars
}

// ParseAuthorizationV4 parses:
//
//	AWS4-HMAC-SHA256 Credential=<ak>/<yyyymmdd>/<region>/s3/aws4_request, SignedHeaders=<h1;h2;...>, Signature=<64-hex>
//
// Whitespace around the commas separating the three components is tolerated.
func ParseAuthorizationV4(header string) (AuthorizationV4, error) {
	header = strings.TrimSpace(header)
	sp := strings.IndexByte(header, ' ')
	if sp < 0 {
		return AuthorizationV4{}, fmt.Errorf("httpkit: malformed Authorization header")
	}
	algorithm := header[:sp]
	if algorithm != "AWS4-HMAC-SHA256" {
		return AuthorizationV4{}, fmt.Errorf("httpkit: unsupported algorithm %q", algorithm)
	}

	rest := strings.TrimSpace(header[sp+1:])
	parts := strings.Split(rest, ",")

	var out AuthorizationV4
	out.Algorithm = algorithm

	var haveCred, haveSigned, haveSig bool
	for _, p := range parts {
		p = strings.TrimSpace(p)
		eq := strings.IndexByte(p, '=')
		if eq < 0 {
			return AuthorizationV4{}, fmt.Errorf("httpkit: malformed Authorization component %q", p)
		}
		key, val := p[:eq], p[eq+1:]
		switch key {
		case "Credential":
			cred, err := parseCredential(val)
			if err != nil {
				return AuthorizationV4{}, err
			}
			out.Credential = cred
			haveCred = true
		case "SignedHeaders":
			if val == "" {
				return AuthorizationV4{}, fmt.Errorf("httpkit: empty SignedHeaders")
			}
			names := strings.Split(val, ";")
			for i, n := range names {
				names[i] = strings.ToLower(n)
			}
			sort.Strings(names)
			out.SignedHeaders = names
			haveSigned = true
		case "Signature":
			if !isLowerHex(val, 64) {
				return AuthorizationV4{}, fmt.Errorf("httpkit: malformed Signature")
			}
			out.Signature = val
			haveSig = true
		default:
			return AuthorizationV4{}, fmt.Errorf("httpkit: unknown Authorization component %q", key)
		}
	}
	if !haveCred || !haveSigned || !haveSig {
		return AuthorizationV4{}, fmt.Errorf("httpkit: Authorization header missing a required component")
	}
	return out, nil
}

// ParseCredential parses the bare "<ak>/<yyyymmdd>/<region>/s3/aws4_request"
// form, used both inside the Authorization header and as the
// X-Amz-Credential presigned query parameter / POST-policy field.
func ParseCredential(val string) (Credential, error) {
	return parseCredential(val)
}

func parseCredential(val string) (Credential, error) {
	parts := strings.Split(val, "/")
	if len(parts) != 5 || parts[3] != "s3" || parts[4] != "aws4_request" {
		return Credential{}, fmt.Errorf("httpkit: malformed Credential %q", val)
	}
	return Credential{
		AccessKeyID: parts[0],
		Date:        parts[1],
		Region:      parts[2],
		Service:     parts[3],
	}, nil
}

func isLowerHex(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
