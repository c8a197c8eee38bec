package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// param is a single query parameter. A nil value means the parameter is left out.
type param struct {
	name  string
	value *string
}

// QueryParams is an ordered list of query parameters.
//
// Unlike url.Values it keeps declaration order, and parameters without a value are
// dropped from the encoded query instead of being sent as "name=".
type QueryParams struct {
	params []param
}

// Push appends a parameter. A nil value, or a nil pointer value, is recorded as absent.
func (p *QueryParams) Push(name string, value any) *QueryParams {
	s, ok := formatParam(value)
	if !ok {
		p.params = append(p.params, param{name: name})
		return p
	}
	p.params = append(p.params, param{name: name, value: &s})
	return p
}

// PushOptional appends a string parameter that may be absent.
func (p *QueryParams) PushOptional(name string, value *string) *QueryParams {
	p.params = append(p.params, param{name: name, value: value})
	return p
}

// Len returns the number of declared parameters, including absent ones.
func (p *QueryParams) Len() int {
	if p == nil {
		return 0
	}
	return len(p.params)
}

// Has reports whether a parameter with the given name was declared with a value.
func (p *QueryParams) Has(name string) bool {
	if p == nil {
		return false
	}
	for _, prm := range p.params {
		if prm.name == name && prm.value != nil {
			return true
		}
	}
	return false
}

// Encode returns the query string for the parameters that carry a value.
func (p *QueryParams) Encode() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	for _, prm := range p.params {
		if prm.value == nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(prm.name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(*prm.value))
	}
	return sb.String()
}

// AddToURL appends the encoded parameters to u, keeping any query u already has.
func (p *QueryParams) AddToURL(u *url.URL) {
	AppendRawQuery(u, p.Encode())
}

// AppendRawQuery merges an already encoded query fragment into u.
func AppendRawQuery(u *url.URL, encoded string) {
	if encoded == "" {
		return
	}
	if u.RawQuery == "" {
		u.RawQuery = encoded
		return
	}
	u.RawQuery += "&" + encoded
}

func formatParam(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case bool:
		return strconv.FormatBool(v), true
	case *bool:
		if v == nil {
			return "", false
		}
		return strconv.FormatBool(*v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case *uint64:
		if v == nil {
			return "", false
		}
		return strconv.FormatUint(*v, 10), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
