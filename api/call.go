// Package api turns a fliPoll API call into a transport ready HTTP request and
// classifies the raw HTTP result into results, authentication failures or API
// errors.
package api

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/pkg/errors"
)

// Method is one of the HTTP methods the fliPoll REST API accepts.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"
)

// Valid reports whether m is an accepted method, ignoring case.
func (m Method) Valid() bool {
	switch Method(strings.ToUpper(string(m))) {
	case MethodGet, MethodPost, MethodDelete:
		return true
	}
	return false
}

// Params are the call parameters. Values are sent in their string form.
type Params map[string]any

// Call describes one API call. Only Endpoint is required; Method defaults to
// GET and Params to none. AccessToken overrides the client's active token.
type Call struct {
	Endpoint    string
	Method      Method
	Params      Params
	Headers     map[string]string
	AccessToken *token.AccessToken
}

// Validate checks the call shape without building a request.
func (c Call) Validate() error {
	if c.Endpoint == "" || !strings.HasPrefix(c.Endpoint, "/") {
		return errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[Call.Validate] endpoint %q must start with /", c.Endpoint)
	}
	if c.Method != "" && !c.Method.Valid() {
		return errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[Call.Validate] unsupported method %q", c.Method)
	}
	return nil
}

// ParseArgs classifies a loose argument list the way the fliPoll SDKs accept
// api(endpoint, [method], [params], [accessToken]).
//
// The first argument is the endpoint. After it, a string naming a method is
// the method, a map is the params, and any other string or an AccessToken is
// the token override. Each slot may be filled once; an empty list, a second
// value for a slot or an unknown type is ErrInvalidCallShape.
func ParseArgs(args ...any) (Call, error) {
	if len(args) == 0 {
		return Call{}, errors.Wrap(sdkerrors.ErrInvalidCallShape, "[ParseArgs] no arguments")
	}

	endpoint, ok := args[0].(string)
	if !ok || !strings.HasPrefix(endpoint, "/") {
		return Call{}, errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[ParseArgs] first argument must be an endpoint starting with /, got %T", args[0])
	}
	call := Call{Endpoint: endpoint}

	duplicate := func(slot string) error {
		return errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[ParseArgs] %s given more than once", slot)
	}

	for i, arg := range args[1:] {
		switch v := arg.(type) {
		case Method:
			if call.Method != "" {
				return Call{}, duplicate("method")
			}
			if !v.Valid() {
				return Call{}, errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[ParseArgs] unsupported method %q", v)
			}
			call.Method = v
		case string:
			if Method(v).Valid() && v == strings.ToUpper(v) {
				if call.Method != "" {
					return Call{}, duplicate("method")
				}
				call.Method = Method(v)
				continue
			}
			if call.AccessToken != nil {
				return Call{}, duplicate("access token")
			}
			tok, err := token.New(v)
			if err != nil {
				return Call{}, errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[ParseArgs] argument %d: %v", i+1, err)
			}
			call.AccessToken = tok
		case Params, map[string]any, map[string]string, url.Values:
			if call.Params != nil {
				return Call{}, duplicate("params")
			}
			call.Params = toParams(v)
		case *token.AccessToken, token.AccessToken:
			if call.AccessToken != nil {
				return Call{}, duplicate("access token")
			}
			tok, err := token.Parse(v)
			if err != nil {
				return Call{}, errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[ParseArgs] argument %d: %v", i+1, err)
			}
			call.AccessToken = tok
		default:
			return Call{}, errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[ParseArgs] argument %d has unsupported type %T", i+1, arg)
		}
	}
	return call, nil
}

func toParams(v any) Params {
	params := Params{}
	switch p := v.(type) {
	case Params:
		for k, val := range p {
			params[k] = val
		}
	case map[string]any:
		for k, val := range p {
			params[k] = val
		}
	case map[string]string:
		for k, val := range p {
			params[k] = val
		}
	case url.Values:
		for k := range p {
			params[k] = p.Get(k)
		}
	}
	return params
}
