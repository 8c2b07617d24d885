package audio

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// Values returns the parameters as 22 comma-separated numbers in field
// order. The waveform is written as an integer, everything else as the
// shortest decimal that parses back to the same float32.
func (s Sound) Values() string {
	var b strings.Builder
	for i, f := range Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if f.Integer {
			b.WriteString(strconv.Itoa(int(f.Get(&s))))
			continue
		}
		b.WriteString(strconv.FormatFloat(float64(f.Get(&s)), 'g', -1, 32))
	}
	return b.String()
}

// ParseValues reads comma-separated values positionally into s. Tokens that
// do not parse, including empty ones, leave their field unchanged.
// Out-of-range numbers saturate to ±Inf. Tokens past the last field are
// ignored.
func (s *Sound) ParseValues(raw string) {
	for i, tok := range strings.Split(raw, ",") {
		if i >= FieldCount {
			return
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			continue
		}
		Fields[i].Set(s, float32(v))
	}
}

// EncodeURL returns the query fragment "?fx=..." for s.
func EncodeURL(s Sound) string {
	return "?" + ParamsKey + "=" + url.QueryEscape(s.Values())
}

// DecodeURL parses a URL, query string or bare "fx=..." fragment. Decoding
// never fails: a missing fx parameter yields DefaultSound and bad values are
// skipped.
func DecodeURL(raw string) Sound {
	s := DefaultSound()
	if v, ok := lookupParams(raw); ok {
		s.ParseValues(v)
	}
	return s
}

// lookupParams extracts and unescapes the fx value from raw.
func lookupParams(raw string) (string, bool) {
	query := raw
	if _, after, ok := strings.Cut(raw, "?"); ok {
		query = after
	}
	query, _, _ = strings.Cut(query, "#")

	for _, pair := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key != ParamsKey {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			return decoded, true
		}
		// Malformed escapes are kept literally.
		return strings.ReplaceAll(value, "+", " "), true
	}
	return "", false
}

// ParseParams accepts anything DecodeURL does, or a bare value list as
// returned by Values. A bare list is not unescaped, so "1e+07" survives.
func ParseParams(raw string) Sound {
	raw = strings.TrimSpace(raw)
	if _, ok := lookupParams(raw); ok {
		return DecodeURL(raw)
	}
	s := DefaultSound()
	s.ParseValues(raw)
	return s
}
