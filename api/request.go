package api

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/jrsteele09/go-flipoll-sdk/internal/utils"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/pkg/errors"
)

const (
	DefaultBaseURL    = "https://flipoll.com/api"
	DefaultAPIVersion = "v2.1"
	SDKVersion        = "1.0"

	HeaderSDKVersion = "fliPoll-Go-SDK-Version"
	ContentTypeForm  = "application/x-www-form-urlencoded;charset=UTF-8"
)

// Request is a fully built HTTP exchange ready for a Transport.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Builder builds requests against one API base URL and version.
type Builder struct {
	BaseURL    string
	Version    string
	SDKVersion string
}

// NewBuilder returns a builder for version on the default fliPoll base URL.
func NewBuilder(version string) Builder {
	if version == "" {
		version = DefaultAPIVersion
	}
	return Builder{BaseURL: DefaultBaseURL, Version: version, SDKVersion: SDKVersion}
}

// Build validates call and turns it into a Request. The call's token takes
// priority over ambient, and neither replaces an Authorization header the
// call already sets.
func (b Builder) Build(call Call, ambient *token.AccessToken) (*Request, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}

	method := MethodGet
	if call.Method != "" {
		method = Method(strings.ToUpper(string(call.Method)))
	}

	base := strings.TrimRight(b.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	version := b.Version
	if version == "" {
		version = DefaultAPIVersion
	}
	endpoint, err := url.Parse(base + "/" + version + call.Endpoint)
	if err != nil {
		return nil, errors.Wrapf(sdkerrors.ErrInvalidCallShape, "[Builder.Build] endpoint %q: %v", call.Endpoint, err)
	}

	header := b.defaultHeader()
	for k, v := range call.Headers {
		header.Set(k, v)
	}
	if header.Get("Authorization") == "" {
		tok := call.AccessToken
		if tok == nil {
			tok = ambient
		}
		if tok != nil && tok.String() != "" {
			header.Set("Authorization", "Bearer "+tok.String())
		}
	}

	req := &Request{Method: string(method), Header: header}
	encoded := EncodeParams(call.Params)
	switch method {
	case MethodGet:
		if encoded != "" {
			if endpoint.RawQuery != "" {
				endpoint.RawQuery += "&" + encoded
			} else {
				endpoint.RawQuery = encoded
			}
		}
	default:
		if encoded != "" {
			req.Body = []byte(encoded)
		}
	}
	req.URL = endpoint.String()
	return req, nil
}

func (b Builder) defaultHeader() http.Header {
	sdkVersion := b.SDKVersion
	if sdkVersion == "" {
		sdkVersion = SDKVersion
	}
	h := http.Header{}
	h.Set("User-Agent", "flipoll-go-sdk/"+sdkVersion)
	h.Set("Content-Type", ContentTypeForm)
	h.Set(HeaderSDKVersion, sdkVersion)
	return h
}

// EncodeParams serialises params as key=value pairs joined with &, sorted by
// key, with keys and values percent-encoded. Nil values are skipped.
func EncodeParams(params Params) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(utils.ToString(params[k])))
	}
	return sb.String()
}
