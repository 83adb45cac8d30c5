package cmd

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// headerFlag represents a flag for setting HTTP headers
// Any repeats will not override. They will append.
//
// format: a=1,b=2
//
type headerFlag struct {
	value   *http.Header
	changed bool
}

func newHeaderFlag(h *http.Header) *headerFlag {
	*h = make(http.Header)
	return &headerFlag{value: h}
}

func (f *headerFlag) String() string {
	if f.value == nil || len(*f.value) == 0 {
		return ""
	}

	var b strings.Builder
	for k, vs := range *f.value {
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k + "=" + v)
		}
	}
	return b.String()
}

func (*headerFlag) Type() string { return "key=value" }

func (f *headerFlag) Set(val string) error {
	var ss []string
	n := strings.Count(val, "=")
	switch n {
	case 0:
		return fmt.Errorf("%s must be formatted as key=value", val)
	case 1:
		ss = append(ss, strings.Trim(val, `"`))
	default:
		r := csv.NewReader(strings.NewReader(val))
		var err error
		ss, err = r.Read()
		if err != nil {
			return err
		}
	}

	out := make(http.Header, len(ss))
	for _, pair := range ss {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("%s must be formatted as key=value", pair)
		}
		out.Add(kv[0], strings.Trim(kv[1], "\""))
	}
	if !f.changed {
		*f.value = out
	} else {
		for k, v := range out {
			for _, s := range v {
				f.value.Add(k, s)
			}
		}
	}
	f.changed = true
	return nil
}

// expandHeaders returns a copy of h with $VAR and ${VAR} references
// in values replaced by the environment.
//
func expandHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, vs := range h {
		for _, v := range vs {
			out.Add(k, os.ExpandEnv(v))
		}
	}
	return out
}
