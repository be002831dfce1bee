package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"
)

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Diffs          []string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func (c comparison) matches() bool {
	return c.StatusMatch && c.BodyMatch
}

func compareTarget(client *http.Client, goBase, legacyBase string, creds credentials, tgt target) comparison {
	comp := comparison{Target: tgt}
	goResp, goDur, goErr := performRequest(client, goBase, tgt, func(req *http.Request) {
		if creds.goToken != "" {
			req.Header.Set("Authorization", "Bearer "+creds.goToken)
		}
	})
	legacyResp, legacyDur, legacyErr := performRequest(client, legacyBase, tgt, func(req *http.Request) {
		if creds.legacyCookie != "" {
			req.Header.Set("Cookie", creds.legacyCookie)
		}
	})
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	defer goResp.Body.Close()
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}
	defer legacyResp.Body.Close()

	comp.GoStatus = goResp.StatusCode
	comp.LegacyStatus = legacyResp.StatusCode
	comp.StatusMatch = comp.GoStatus == comp.LegacyStatus

	goBody, err := io.ReadAll(goResp.Body)
	if err != nil {
		comp.Error = fmt.Errorf("read go body: %w", err)
		return comp
	}
	legacyBody, err := io.ReadAll(legacyResp.Body)
	if err != nil {
		comp.Error = fmt.Errorf("read legacy body: %w", err)
		return comp
	}

	comp.Diffs = diffBodies(goBody, legacyBody, tgt.Fields)
	comp.BodyMatch = len(comp.Diffs) == 0
	return comp
}

func performRequest(client *http.Client, base string, tgt target, decorate func(*http.Request)) (*http.Response, time.Duration, error) {
	if client == nil {
		return nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, 0, err
	}
	if decorate != nil {
		decorate(req)
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp, time.Since(start), nil
}

// diffBodies lists the differences between two response bodies. With fields
// set only those top-level keys of JSON objects are compared.
func diffBodies(goBody, legacyBody []byte, fields []string) []string {
	if len(fields) == 0 && bytes.Equal(bytes.TrimSpace(goBody), bytes.TrimSpace(legacyBody)) {
		return nil
	}

	var goJSON, legacyJSON interface{}
	if err := json.Unmarshal(goBody, &goJSON); err != nil {
		return []string{"go body is not JSON"}
	}
	if err := json.Unmarshal(legacyBody, &legacyJSON); err != nil {
		return []string{"legacy body is not JSON"}
	}
	normalize(&goJSON)
	normalize(&legacyJSON)

	if len(fields) == 0 {
		if reflect.DeepEqual(goJSON, legacyJSON) {
			return nil
		}
		return []string{"body differs"}
	}

	goObj, goOK := goJSON.(map[string]interface{})
	legacyObj, legacyOK := legacyJSON.(map[string]interface{})
	if !goOK || !legacyOK {
		return []string{"field comparison needs JSON objects on both sides"}
	}
	var diffs []string
	for _, field := range fields {
		if !reflect.DeepEqual(goObj[field], legacyObj[field]) {
			diffs = append(diffs, fmt.Sprintf("%s: go=%v legacy=%v", field, goObj[field], legacyObj[field]))
		}
	}
	sort.Strings(diffs)
	return diffs
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}
