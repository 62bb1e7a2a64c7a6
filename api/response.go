package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	statusLinePattern = regexp.MustCompile(`^HTTP/\d(?:\.\d)?\s+(\d+)`)
	oauthErrorPattern = regexp.MustCompile(`\{(.*?)\}`)
)

// Response is a successful API exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Results is the results member of the body, nil when absent.
	Results json.RawMessage
}

// DecodeResults unmarshals Results into v.
func (r *Response) DecodeResults(v any) error {
	if r.Results == nil {
		return errors.Wrap(sdkerrors.ErrInvalidArgument, "[Response.DecodeResults] response has no results")
	}
	if err := json.Unmarshal(r.Results, v); err != nil {
		return errors.Wrap(err, "[Response.DecodeResults]")
	}
	return nil
}

// ResultsMap returns Results as a JSON object, or nil when absent or not an object.
func (r *Response) ResultsMap() map[string]any {
	if r.Results == nil {
		return nil
	}
	m, ok := gjson.ParseBytes(r.Results).Value().(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// Get reads a gjson path from the results, for example "user.name".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Results, path)
}

// Classify turns a raw exchange into a Response or a typed error. A status
// other than 200 is an *sdkerrors.AuthenticationError, a body with an error
// member is an *sdkerrors.APIError, anything else succeeds.
func Classify(raw *RawResponse) (*Response, error) {
	if raw == nil {
		return nil, &sdkerrors.TransportError{Op: "classify", Err: errors.New("no response")}
	}

	status := raw.StatusCode
	header := raw.Header
	statusLine := raw.StatusLine

	if raw.RawHeader != "" {
		line, parsed := parseHeaderBlock(raw.RawHeader)
		if line != "" {
			statusLine = line
		}
		if header == nil {
			header = parsed
		}
	}
	if status == 0 {
		status = statusFromLine(statusLine)
	}
	if header == nil {
		header = http.Header{}
	}

	if status != http.StatusOK {
		message := oauthError(statusLine)
		if message == "" {
			message = sdkerrors.DefaultAuthenticationMessage
		}
		return nil, &sdkerrors.AuthenticationError{StatusCode: status, Message: message}
	}

	body := gjson.ParseBytes(raw.Body)
	if apiErr := body.Get("error"); apiErr.Exists() && apiErr.Type != gjson.Null {
		return nil, &sdkerrors.APIError{
			Message: apiErr.Get("message").String(),
			Code:    int(apiErr.Get("code").Int()),
		}
	}

	resp := &Response{StatusCode: status, Header: header, Body: raw.Body}
	if results := body.Get("results"); results.Exists() && results.Type != gjson.Null {
		resp.Results = json.RawMessage(results.Raw)
	}
	return resp, nil
}

// parseHeaderBlock reads the last header block of a raw header dump. Earlier
// blocks belong to redirects or proxies.
func parseHeaderBlock(raw string) (string, http.Header) {
	normalised := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	blocks := strings.Split(normalised, "\n\n")
	last := blocks[len(blocks)-1]

	var statusLine string
	header := http.Header{}
	for _, line := range strings.Split(last, "\n") {
		if strings.HasPrefix(line, "HTTP/") {
			statusLine = line
			continue
		}
		key, value, _ := strings.Cut(line, ": ")
		if key == "" {
			continue
		}
		header.Add(key, value)
	}
	return statusLine, header
}

func statusFromLine(line string) int {
	m := statusLinePattern.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return code
}

// oauthError extracts the Error member of a JSON fragment in the status line,
// as in `HTTP/1.1 400 {"Error":"invalid_grant"}`.
func oauthError(statusLine string) string {
	fragment := oauthErrorPattern.FindString(statusLine)
	if fragment == "" || !gjson.Valid(fragment) {
		return ""
	}
	return gjson.Get(fragment, "Error").String()
}
