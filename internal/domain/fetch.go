package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldSet selects which part of the Walmart product document is returned
type FieldSet string

const (
	FieldsBasic     FieldSet = "basic"
	FieldsDetailed  FieldSet = "detailed"
	FieldsNutrition FieldSet = "nutritionFacts"
	FieldsStore     FieldSet = "store"
	FieldsAll       FieldSet = "all"
)

// FetchKind tags the variant held by a FetchResult
type FetchKind int

const (
	KindDocument FetchKind = iota
	KindNotFound
	KindHTTPError
	KindEmpty
)

func (k FetchKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindNotFound:
		return "not-found"
	case KindHTTPError:
		return "http-error"
	case KindEmpty:
		return "empty"
	default:
		return fmt.Sprintf("FetchKind(%d)", int(k))
	}
}

// Document is a decoded JSON object. Numbers are kept as json.Number.
type Document map[string]interface{}

// FetchResult is the outcome of a single product request. It is produced
// fresh for every call and never cached.
type FetchResult struct {
	Kind       FetchKind
	Document   Document
	StatusCode int
}

// DocumentResult wraps a decoded response body
func DocumentResult(doc Document) FetchResult {
	return FetchResult{Kind: KindDocument, Document: doc}
}

// NotFoundResult is returned for HTTP 404
func NotFoundResult() FetchResult {
	return FetchResult{Kind: KindNotFound, StatusCode: 404}
}

// HTTPErrorResult is returned for error statuses other than 404 and for
// transport failures (status 0)
func HTTPErrorResult(status int) FetchResult {
	return FetchResult{Kind: KindHTTPError, StatusCode: status}
}

// EmptyResult is returned when a successful response has no body
func EmptyResult() FetchResult {
	return FetchResult{Kind: KindEmpty}
}

// IsDocument reports whether the result carries a decoded body
func (r FetchResult) IsDocument() bool {
	return r.Kind == KindDocument && r.Document != nil
}

// Lookup walks nested objects by key. Numeric keys index into arrays.
// A JSON null counts as absent.
func (d Document) Lookup(path ...string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(d)
	for _, key := range path {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case Document:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
		if cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// LookupString returns the value at path rendered as text. Strings are
// returned as is, numbers keep their JSON text.
func (d Document) LookupString(path ...string) (string, bool) {
	v, ok := d.Lookup(path...)
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return fmt.Sprint(val), true
	}
}
