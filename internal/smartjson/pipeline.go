package smartjson

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// RuleKey is the object key whose values carry rule expressions and
// get their shape normalized after parsing.
const RuleKey = "actin_rule"

// Stage is a caller-supplied fallback parser, tried only after the
// built-in stages have all failed.
type Stage func(text string) (any, error)

// ParseDocument decodes JSON-like text, degrading gracefully through a
// chain of increasingly forgiving parsers:
//
//  1. strict decoding,
//  2. textual repair followed by strict decoding,
//  3. the tolerant recursive parser,
//  4. any extra stages supplied by the caller, in order.
//
// Rule values under RuleKey are shape-normalized in the result. The
// error from the last stage is returned when every stage fails.
func ParseDocument(text string, extra ...Stage) (any, error) {
	v, strictErr := parseStrict(text)
	if strictErr == nil {
		return NormalizeRuleShapes(v), nil
	}
	slog.Warn("strict json parse failed, attempting textual repair", "error", strictErr)

	repaired := Repair(text)
	v, repairErr := parseStrict(repaired)
	if repairErr == nil {
		return NormalizeRuleShapes(v), nil
	}
	slog.Warn("repaired json still does not parse, falling back to tolerant parser", "error", repairErr)

	v, tolerantErr := Parse(text)
	if tolerantErr == nil {
		return NormalizeRuleShapes(v), nil
	}
	err := tolerantErr
	for i, stage := range extra {
		slog.Warn("tolerant parse failed, trying fallback stage", "stage", i, "error", err)
		v, stageErr := stage(text)
		if stageErr == nil {
			return NormalizeRuleShapes(v), nil
		}
		err = stageErr
	}
	return nil, fmt.Errorf("parse document: %w", err)
}

// parseStrict is encoding/json with numbers kept exact and then
// widened to int64 or float64, so strict results are indistinguishable
// from tolerant ones.
func parseStrict(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return widenNumbers(v), nil
}

func widenNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if !strings.ContainsAny(string(t), ".eE") {
			if n, err := t.Int64(); err == nil {
				return n
			}
		}
		f, err := t.Float64()
		if err != nil {
			return string(t)
		}
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = widenNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = widenNumbers(e)
		}
		return t
	default:
		return v
	}
}

// NormalizeRuleShapes walks a decoded document and rewrites every
// value stored under RuleKey into canonical rule shape.
func NormalizeRuleShapes(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			if k == RuleKey {
				t[k] = normalizeRule(e)
			} else {
				NormalizeRuleShapes(e)
			}
		}
	case []any:
		for _, e := range t {
			NormalizeRuleShapes(e)
		}
	}
	return v
}

// normalizeRule forces a rule value into the { name: [params] } shape.
// Bare names become zero-parameter rules, AND/OR children are fixed
// recursively, and stray scalar or boolean parameters are wrapped or
// dropped.
func normalizeRule(rule any) any {
	switch t := rule.(type) {
	case string:
		return map[string]any{t: []any{}}
	case bool:
		return map[string]any{strconv.FormatBool(t): []any{}}
	case map[string]any:
		fixed := make(map[string]any, len(t))
		for name, params := range t {
			switch {
			case name == "AND" || name == "OR":
				children, ok := params.([]any)
				if !ok {
					fixed[name] = params
					continue
				}
				out := make([]any, len(children))
				for i, c := range children {
					out[i] = normalizeRule(c)
				}
				fixed[name] = out
			case name == "NOT":
				fixed[name] = normalizeRule(params)
			default:
				switch p := params.(type) {
				case []any:
					fixed[name] = p
				case bool:
					// boolean params are producer noise on
					// zero-parameter rules
					fixed[name] = []any{}
				default:
					fixed[name] = []any{p}
				}
			}
		}
		return fixed
	default:
		return rule
	}
}
